// Package skiplist
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
package skiplist

import (
	"iter"
	"math/rand"
	"sync"
)

const MaxLevel = 16
const p = 0.25

// KeyComparator orders keys: negative if a < b, zero if equal, positive if a > b
type KeyComparator[K any] func(a, b K) int

// Node represents a node in the skip list
type Node[K any, V any] struct {
	forward [MaxLevel]*Node[K, V] // Successor per level
	key     K
	value   V
}

// SkipList is an ordered map with unique keys.
// Readers share a lock, writers hold it exclusively.
type SkipList[K any, V any] struct {
	lock       sync.RWMutex
	header     *Node[K, V]      // Special header node
	level      int              // Current maximum level of the list
	length     int              // Number of keys
	rng        *rand.Rand       // Level generator
	comparator KeyComparator[K] // User-provided comparator function
}

// New creates a skip list ordered by cmp whose level choices are drawn from seed
func New[K any, V any](cmp KeyComparator[K], seed int64) *SkipList[K, V] {
	return &SkipList[K, V]{
		header:     &Node[K, V]{},
		level:      1,
		rng:        rand.New(rand.NewSource(seed)),
		comparator: cmp,
	}
}

// randomLevel generates a random level for a new node
func (sl *SkipList[K, V]) randomLevel() int {
	lvl := 1
	for sl.rng.Float64() < p && lvl < MaxLevel {
		lvl++
	}
	return lvl
}

// findGreaterOrEqual returns the first node with key >= searchKey, filling
// update with the rightmost node before it on every level when given
func (sl *SkipList[K, V]) findGreaterOrEqual(searchKey K, update *[MaxLevel]*Node[K, V]) *Node[K, V] {
	prev := sl.header
	for i := sl.level - 1; i >= 0; i-- {
		curr := prev.forward[i]
		for curr != nil && sl.comparator(curr.key, searchKey) < 0 {
			prev = curr
			curr = curr.forward[i]
		}
		if update != nil {
			update[i] = prev
		}
	}
	return prev.forward[0]
}

// Get retrieves the value stored under searchKey
func (sl *SkipList[K, V]) Get(searchKey K) (V, bool) {
	sl.lock.RLock()
	defer sl.lock.RUnlock()

	n := sl.findGreaterOrEqual(searchKey, nil)
	if n != nil && sl.comparator(n.key, searchKey) == 0 {
		return n.value, true
	}

	var zero V
	return zero, false
}

// Put inserts or overwrites the value for searchKey
func (sl *SkipList[K, V]) Put(searchKey K, newValue V) {
	sl.lock.Lock()
	defer sl.lock.Unlock()

	var update [MaxLevel]*Node[K, V]
	n := sl.findGreaterOrEqual(searchKey, &update)
	if n != nil && sl.comparator(n.key, searchKey) == 0 {
		n.value = newValue
		return
	}

	topLevel := sl.randomLevel()
	if topLevel > sl.level {
		for i := sl.level; i < topLevel; i++ {
			update[i] = sl.header
		}
		sl.level = topLevel
	}

	newNode := &Node[K, V]{key: searchKey, value: newValue}
	for i := 0; i < topLevel; i++ {
		newNode.forward[i] = update[i].forward[i]
		update[i].forward[i] = newNode
	}

	sl.length++
}

// Delete removes searchKey, reporting whether it was present
func (sl *SkipList[K, V]) Delete(searchKey K) bool {
	sl.lock.Lock()
	defer sl.lock.Unlock()

	var update [MaxLevel]*Node[K, V]
	n := sl.findGreaterOrEqual(searchKey, &update)
	if n == nil || sl.comparator(n.key, searchKey) != 0 {
		return false
	}

	for i := 0; i < sl.level; i++ {
		if update[i].forward[i] != n {
			break
		}
		update[i].forward[i] = n.forward[i]
	}

	// Shrink the list level while the top is empty
	for sl.level > 1 && sl.header.forward[sl.level-1] == nil {
		sl.level--
	}

	sl.length--
	return true
}

// Len returns the number of keys
func (sl *SkipList[K, V]) Len() int {
	sl.lock.RLock()
	defer sl.lock.RUnlock()
	return sl.length
}

// GetMin returns the smallest key and its value
func (sl *SkipList[K, V]) GetMin() (K, V, bool) {
	sl.lock.RLock()
	defer sl.lock.RUnlock()

	if n := sl.header.forward[0]; n != nil {
		return n.key, n.value, true
	}

	var (
		k K
		v V
	)
	return k, v, false
}

// GetMax returns the largest key and its value
func (sl *SkipList[K, V]) GetMax() (K, V, bool) {
	sl.lock.RLock()
	defer sl.lock.RUnlock()

	prev := sl.header
	for i := sl.level - 1; i >= 0; i-- {
		for prev.forward[i] != nil {
			prev = prev.forward[i]
		}
	}

	if prev == sl.header {
		var (
			k K
			v V
		)
		return k, v, false
	}
	return prev.key, prev.value, true
}

// Range yields the pairs with startKey <= key <= endKey in ascending order.
// The read lock is held while the sequence is consumed, so the loop body
// must not write to the list.
func (sl *SkipList[K, V]) Range(startKey, endKey K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		sl.lock.RLock()
		defer sl.lock.RUnlock()

		for n := sl.findGreaterOrEqual(startKey, nil); n != nil; n = n.forward[0] {
			if sl.comparator(n.key, endKey) > 0 {
				return
			}
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}
