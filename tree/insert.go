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
	"slices"

	"github.com/GalenLovesCheese/DSA-Assignment/stack"
)

// Insert adds a key/value pair.  An equal key already present is kept and the
// new pair is placed after it, unless the tree was opened with Upsert in which
// case the newest value for key is replaced.
func (bt *BPlusTree[K, V]) Insert(key K, value V) {
	if bt.upsert {
		if leaf, i, ok := bt.findLast(key); ok {
			leaf.values[i] = value
			bt.mutated()
			return
		}
	}

	path := stack.New[frame]()

	// Descend by upper bound so the pair lands after every equal key
	slot := bt.root
	n := bt.node(slot)
	for !n.leaf {
		i := bt.upperBound(n.keys, key)
		path.Push(frame{parent: slot, idx: i})
		slot = n.children[i]
		n = bt.node(slot)
	}

	pos := bt.upperBound(n.keys, key)
	n.keys = slices.Insert(n.keys, pos, key)
	n.values = slices.Insert(n.values, pos, value)
	bt.count++

	// A node may hold Order keys only transiently, split it and push the
	// separator into the parent until nothing overflows
	for len(n.keys) >= bt.order {
		sep, sibling := bt.split(n)

		f, ok := path.Pop()
		if !ok {
			bt.growRoot(slot, sep, sibling)
			break
		}

		parent := bt.node(f.parent)
		parent.keys = slices.Insert(parent.keys, f.idx, sep)
		parent.children = slices.Insert(parent.children, f.idx+1, sibling)

		slot, n = f.parent, parent
	}

	bt.mutated()
}

// split moves the upper half of an overflowing node into a new right sibling.
// Returns the separator for the parent and the sibling's slot.
func (bt *BPlusTree[K, V]) split(n *node[K, V]) (K, int64) {
	mid := len(n.keys) / 2

	if n.leaf {
		right := bt.newLeaf()
		right.keys = append(right.keys, n.keys[mid:]...)
		right.values = append(right.values, n.values[mid:]...)

		clear(n.keys[mid:])
		clear(n.values[mid:])
		n.keys = n.keys[:mid]
		n.values = n.values[:mid]

		// Link the sibling into the chain right after n
		right.next = n.next
		slot := bt.nodes.Add(right)
		n.next = slot

		// Leaves keep every key, the separator is a copy
		return right.keys[0], slot
	}

	right := bt.newInternal()
	sep := n.keys[mid]
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)

	clear(n.keys[mid:])
	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	return sep, bt.nodes.Add(right)
}

// growRoot puts a new root above the old one after the old root split
func (bt *BPlusTree[K, V]) growRoot(left int64, sep K, right int64) {
	root := bt.newInternal()
	root.keys = append(root.keys, sep)
	root.children = append(root.children, left, right)
	bt.root = bt.nodes.Add(root)
	bt.height++
}
