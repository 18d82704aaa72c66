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

// Search returns the value of the most recently inserted entry for key
func (bt *BPlusTree[K, V]) Search(key K) (V, bool) {
	leaf, i, ok := bt.findLast(key)
	if !ok {
		var zero V
		return zero, false
	}
	return leaf.values[i], true
}

// Contains reports whether key is present
func (bt *BPlusTree[K, V]) Contains(key K) bool {
	leaf, i := bt.seek(key)
	return i < len(leaf.keys) && bt.cmp(leaf.keys[i], key) == 0
}

// Count returns the number of entries stored under key
func (bt *BPlusTree[K, V]) Count(key K) int {
	count := 0
	bt.walkEqual(key, func(*node[K, V], int) {
		count++
	})
	return count
}

// findLast locates the last occurrence of key in leaf-chain order
func (bt *BPlusTree[K, V]) findLast(key K) (*node[K, V], int, bool) {
	var (
		last  *node[K, V]
		lastI int
	)
	bt.walkEqual(key, func(n *node[K, V], i int) {
		last, lastI = n, i
	})
	return last, lastI, last != nil
}

// walkEqual visits every entry equal to key, oldest first.
// Equal keys may straddle leaves so the walk follows the chain.
func (bt *BPlusTree[K, V]) walkEqual(key K, visit func(n *node[K, V], i int)) {
	n, i := bt.seek(key)
	for {
		if i >= len(n.keys) {
			if n.next == noSlot {
				return
			}
			n = bt.node(n.next)
			i = 0
			continue
		}
		if bt.cmp(n.keys[i], key) != 0 {
			return
		}
		visit(n, i)
		i++
	}
}
