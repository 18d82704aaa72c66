// Package tree
//
// (C) Copyright Alex Gaetano Padula
//
// Licensed under the Mozilla Public License, v. 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package tree

import (
	"github.com/GalenLovesCheese/DSA-Assignment/buffer"
	"github.com/GalenLovesCheese/DSA-Assignment/queue"
	"github.com/cockroachdb/errors"
)

// built is a finished node of the level under construction
type built[K any] struct {
	slot int64
	min  K // Smallest key in the subtree
}

// BulkLoad replaces the contents of the tree with keys and values, which must
// be of equal length and sorted ascending (equal keys allowed).  On error the
// tree is left as it was.
// Leaves are packed full and every level above groups Order children per
// node, so the result is as shallow as the order allows.
func (bt *BPlusTree[K, V]) BulkLoad(keys []K, values []V) error {
	if len(keys) != len(values) {
		return errors.Wrapf(ErrLengthMismatch, "%d keys, %d values", len(keys), len(values))
	}

	for i := 1; i < len(keys); i++ {
		if bt.cmp(keys[i-1], keys[i]) > 0 {
			return errors.Wrapf(ErrUnsorted, "key at index %d", i)
		}
	}

	if len(keys) == 0 {
		bt.nodes, bt.root = bt.emptyArena()
		bt.height = 1
		bt.count = 0
		bt.mutated()
		return nil
	}

	arena, _ := buffer.New[*node[K, V]](len(keys)/bt.MaxKeys() + initialArenaCapacity)

	level := queue.New[built[K]]()

	// Leaves, linked left to right
	var prev *node[K, V]
	offset := 0
	for _, size := range groupSizes(len(keys), bt.MaxKeys(), bt.minKeys) {
		leaf := bt.newLeaf()
		leaf.keys = append(leaf.keys, keys[offset:offset+size]...)
		leaf.values = append(leaf.values, values[offset:offset+size]...)
		offset += size

		slot := arena.Add(leaf)
		if prev != nil {
			prev.next = slot
		}
		prev = leaf

		level.Enqueue(built[K]{slot: slot, min: leaf.keys[0]})
	}

	height := 1
	for level.Size() > 1 {
		next := queue.New[built[K]]()

		for _, size := range groupSizes(int(level.Size()), bt.order, bt.minKeys+1) {
			parent := bt.newInternal()

			first, _ := level.Dequeue()
			parent.children = append(parent.children, first.slot)
			for j := 1; j < size; j++ {
				child, _ := level.Dequeue()
				parent.keys = append(parent.keys, child.min)
				parent.children = append(parent.children, child.slot)
			}

			next.Enqueue(built[K]{slot: arena.Add(parent), min: first.min})
		}

		level = next
		height++
	}

	root, _ := level.Dequeue()

	bt.nodes = arena
	bt.root = root.slot
	bt.height = height
	bt.count = len(keys)
	bt.mutated()

	return nil
}

// groupSizes splits total items into runs of at most maxRun.  A short final run
// is evened out with the one before it so that no run is below minRun, unless
// there is a single run.
func groupSizes(total, maxRun, minRun int) []int {
	sizes := make([]int, 0, total/maxRun+1)
	for total > 0 {
		n := maxRun
		if total < n {
			n = total
		}
		sizes = append(sizes, n)
		total -= n
	}

	last := len(sizes) - 1
	if last > 0 && sizes[last] < minRun {
		combined := sizes[last-1] + sizes[last]
		sizes[last-1] = combined / 2
		sizes[last] = combined - combined/2
	}

	return sizes
}
