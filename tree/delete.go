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

// Delete removes the oldest entry stored under key.
// Returns false, leaving the tree untouched, if key is absent.
func (bt *BPlusTree[K, V]) Delete(key K) bool {
	return bt.DeleteFunc(key, nil)
}

// DeleteFunc removes the oldest entry under key whose value is accepted by
// match.  A nil match accepts any value.
func (bt *BPlusTree[K, V]) DeleteFunc(key K, match func(V) bool) bool {
	path := stack.New[frame]()

	slot, leaf := bt.descend(key, path.Push)
	i := bt.lowerBound(leaf.keys, key)

	for {
		if i >= len(leaf.keys) {
			// Equal keys may continue in the next leaf
			next, ok := bt.advance(path)
			if !ok {
				return false
			}
			slot, leaf, i = next, bt.node(next), 0
			continue
		}

		c := bt.cmp(leaf.keys[i], key)
		if c > 0 {
			return false
		}
		if c == 0 && (match == nil || match(leaf.values[i])) {
			break
		}
		i++
	}

	leaf.keys = slices.Delete(leaf.keys, i, i+1)
	leaf.values = slices.Delete(leaf.values, i, i+1)
	bt.count--

	bt.rebalance(slot, path)
	bt.mutated()

	return true
}

// DeleteAll removes every entry stored under key and returns how many went
func (bt *BPlusTree[K, V]) DeleteAll(key K) int {
	removed := 0
	for bt.Delete(key) {
		removed++
	}
	return removed
}

// advance moves a root-to-leaf path onto the next leaf to the right.
// Returns the new leaf's slot, false when the path was on the last leaf.
func (bt *BPlusTree[K, V]) advance(path *stack.Stack[frame]) (int64, bool) {
	for {
		f, ok := path.Pop()
		if !ok {
			return noSlot, false
		}

		parent := bt.node(f.parent)
		if f.idx+1 >= len(parent.children) {
			continue
		}

		path.Push(frame{parent: f.parent, idx: f.idx + 1})
		slot := parent.children[f.idx+1]
		n := bt.node(slot)
		for !n.leaf {
			path.Push(frame{parent: slot, idx: 0})
			slot = n.children[0]
			n = bt.node(slot)
		}
		return slot, true
	}
}

// rebalance restores minimum occupancy from slot upward along path.
// Borrowing is preferred over merging and the left sibling over the right.
func (bt *BPlusTree[K, V]) rebalance(slot int64, path *stack.Stack[frame]) {
	for slot != bt.root {
		n := bt.node(slot)
		if len(n.keys) >= bt.minKeys {
			break
		}

		f, ok := path.Pop()
		if !ok {
			break
		}

		parent := bt.node(f.parent)

		var left, right *node[K, V]
		if f.idx > 0 {
			left = bt.node(parent.children[f.idx-1])
		}
		if f.idx < len(parent.children)-1 {
			right = bt.node(parent.children[f.idx+1])
		}

		if left != nil && len(left.keys) > bt.minKeys {
			bt.borrowFromLeft(parent, f.idx, left, n)
			break
		}

		if right != nil && len(right.keys) > bt.minKeys {
			bt.borrowFromRight(parent, f.idx, n, right)
			break
		}

		if left != nil {
			bt.merge(parent, f.idx-1)
		} else {
			bt.merge(parent, f.idx)
		}

		slot = f.parent
	}

	root := bt.node(bt.root)
	if !root.leaf && len(root.keys) == 0 {
		old := bt.root
		bt.root = root.children[0]
		_ = bt.nodes.Remove(old)
		bt.height--
	}
}

// borrowFromLeft moves the last entry of left to the front of n, the child at idx
func (bt *BPlusTree[K, V]) borrowFromLeft(parent *node[K, V], idx int, left, n *node[K, V]) {
	last := len(left.keys) - 1

	if n.leaf {
		n.keys = slices.Insert(n.keys, 0, left.keys[last])
		n.values = slices.Insert(n.values, 0, left.values[last])
		left.keys = slices.Delete(left.keys, last, last+1)
		left.values = slices.Delete(left.values, last, last+1)
		parent.keys[idx-1] = n.keys[0]
		return
	}

	// Rotate through the parent
	n.keys = slices.Insert(n.keys, 0, parent.keys[idx-1])
	n.children = slices.Insert(n.children, 0, left.children[last+1])
	parent.keys[idx-1] = left.keys[last]
	left.keys = slices.Delete(left.keys, last, last+1)
	left.children = left.children[:last+1]
}

// borrowFromRight moves the first entry of right to the end of n, the child at idx
func (bt *BPlusTree[K, V]) borrowFromRight(parent *node[K, V], idx int, n, right *node[K, V]) {
	if n.leaf {
		n.keys = append(n.keys, right.keys[0])
		n.values = append(n.values, right.values[0])
		right.keys = slices.Delete(right.keys, 0, 1)
		right.values = slices.Delete(right.values, 0, 1)
		parent.keys[idx] = right.keys[0]
		return
	}

	n.keys = append(n.keys, parent.keys[idx])
	n.children = append(n.children, right.children[0])
	parent.keys[idx] = right.keys[0]
	right.keys = slices.Delete(right.keys, 0, 1)
	right.children = slices.Delete(right.children, 0, 1)
}

// merge folds the child at idx+1 into the child at idx and drops their
// separator from parent.  The right node's slot is released.
func (bt *BPlusTree[K, V]) merge(parent *node[K, V], idx int) {
	leftSlot, rightSlot := parent.children[idx], parent.children[idx+1]
	left, right := bt.node(leftSlot), bt.node(rightSlot)

	if left.leaf {
		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)
		left.next = right.next
	} else {
		left.keys = append(left.keys, parent.keys[idx])
		left.keys = append(left.keys, right.keys...)
		left.children = append(left.children, right.children...)
	}

	parent.keys = slices.Delete(parent.keys, idx, idx+1)
	parent.children = slices.Delete(parent.children, idx+1, idx+2)

	_ = bt.nodes.Remove(rightSlot)
}
