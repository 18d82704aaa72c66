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
	"github.com/cockroachdb/errors"
)

// verifier carries the state of one Verify walk
type verifier[K any, V any] struct {
	bt      *BPlusTree[K, V]
	seen    map[int64]bool // Slots reached from the root
	leaves  []int64        // Leaves in left to right order
	entries int
}

// Verify checks every structural invariant of the tree and returns the first
// violation found.  It walks the whole tree and is meant for tests and
// invariants builds.
func (bt *BPlusTree[K, V]) Verify() error {
	v := &verifier[K, V]{bt: bt, seen: make(map[int64]bool)}

	if err := v.check(bt.root, 1, nil, nil); err != nil {
		return err
	}

	if v.entries != bt.count {
		return errors.AssertionFailedf("tree: counted %d entries, expected %d", v.entries, bt.count)
	}

	if int64(len(v.seen)) != bt.nodes.Count() {
		return errors.AssertionFailedf("tree: %d nodes reachable but arena holds %d", len(v.seen), bt.nodes.Count())
	}

	return v.checkChain()
}

// check validates the subtree at slot, whose keys must lie within [lo, hi]
// when the bounds are given
func (v *verifier[K, V]) check(slot int64, depth int, lo, hi *K) error {
	bt := v.bt

	if !bt.nodes.Live(slot) {
		return errors.AssertionFailedf("tree: dangling slot %d at depth %d", slot, depth)
	}
	if v.seen[slot] {
		return errors.AssertionFailedf("tree: slot %d reachable twice", slot)
	}
	v.seen[slot] = true

	n := bt.node(slot)
	isRoot := slot == bt.root

	if len(n.keys) > bt.MaxKeys() {
		return errors.AssertionFailedf("tree: node %d holds %d keys, max %d", slot, len(n.keys), bt.MaxKeys())
	}
	if !isRoot && len(n.keys) < bt.minKeys {
		return errors.AssertionFailedf("tree: node %d holds %d keys, min %d", slot, len(n.keys), bt.minKeys)
	}

	for i := range n.keys {
		if i > 0 && bt.cmp(n.keys[i-1], n.keys[i]) > 0 {
			return errors.AssertionFailedf("tree: node %d keys out of order at %d", slot, i)
		}
		if lo != nil && bt.cmp(n.keys[i], *lo) < 0 {
			return errors.AssertionFailedf("tree: node %d key %d below its separator", slot, i)
		}
		if hi != nil && bt.cmp(n.keys[i], *hi) > 0 {
			return errors.AssertionFailedf("tree: node %d key %d above its separator", slot, i)
		}
	}

	if n.leaf {
		if depth != bt.height {
			return errors.AssertionFailedf("tree: leaf %d at depth %d, height %d", slot, depth, bt.height)
		}
		if len(n.values) != len(n.keys) {
			return errors.AssertionFailedf("tree: leaf %d has %d keys and %d values", slot, len(n.keys), len(n.values))
		}
		v.entries += len(n.keys)
		v.leaves = append(v.leaves, slot)
		return nil
	}

	if isRoot && len(n.keys) == 0 {
		return errors.AssertionFailedf("tree: internal root %d has no keys", slot)
	}
	if len(n.children) != len(n.keys)+1 {
		return errors.AssertionFailedf("tree: node %d has %d keys and %d children", slot, len(n.keys), len(n.children))
	}

	for i, child := range n.children {
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = &n.keys[i-1]
		}
		if i < len(n.keys) {
			childHi = &n.keys[i]
		}
		if err := v.check(child, depth+1, childLo, childHi); err != nil {
			return err
		}
	}

	return nil
}

// checkChain follows next links from the leftmost leaf and compares them with
// the in-order leaves
func (v *verifier[K, V]) checkChain() error {
	bt := v.bt
	slot := v.leaves[0]
	var prev *node[K, V]

	for i, want := range v.leaves {
		if slot != want {
			return errors.AssertionFailedf("tree: leaf chain reaches slot %d, expected %d", slot, want)
		}

		n := bt.node(slot)
		if prev != nil && len(prev.keys) > 0 && len(n.keys) > 0 &&
			bt.cmp(prev.keys[len(prev.keys)-1], n.keys[0]) > 0 {
			return errors.AssertionFailedf("tree: leaf chain out of order at leaf %d", i)
		}

		prev = n
		slot = n.next
	}

	if slot != noSlot {
		return errors.AssertionFailedf("tree: last leaf links to slot %d", slot)
	}

	return nil
}
