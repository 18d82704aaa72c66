// Package lru
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
package lru

import (
	"math"
	"sort"
	"sync"
)

// EvictionCallback is called for an entry pushed out by capacity pressure
type EvictionCallback[K comparable, V any] func(key K, value V)

// node is an entry of the recency list
type node[K comparable, V any] struct {
	key       K
	value     V
	accessCnt uint64 // Number of reads and writes
	timestamp uint64 // Logical insertion time
	prev      *node[K, V]
	next      *node[K, V]
	onEvict   EvictionCallback[K, V]
}

// LRU is a bounded cache.  When full it evicts a fraction of its entries,
// choosing by a score that blends access count with insertion age.
type LRU[K comparable, V any] struct {
	lock         sync.Mutex
	items        map[K]*node[K, V]
	head         *node[K, V] // Oldest
	tail         *node[K, V] // Newest
	capacity     int64       // Maximum entries
	evictRatio   float64     // Ratio of entries to evict when capacity is reached
	accessWeight float64     // Weight of access count in the eviction score
	timeWeight   float64     // Weight of age in the eviction score
	clock        uint64
}

// New creates a cache holding up to capacity entries
func New[K comparable, V any](capacity int64, evictRatio float64, accessWeight float64) *LRU[K, V] {
	if capacity <= 0 {
		capacity = math.MaxInt64 // "unlimited"
	}
	if evictRatio <= 0 || evictRatio >= 1 {
		evictRatio = 0.25
	}
	if accessWeight < 0 || accessWeight > 1 {
		accessWeight = 0.7
	}

	return &LRU[K, V]{
		items:        make(map[K]*node[K, V]),
		capacity:     capacity,
		evictRatio:   evictRatio,
		accessWeight: accessWeight,
		timeWeight:   1 - accessWeight,
	}
}

// Get retrieves a value by key and counts the access
func (list *LRU[K, V]) Get(key K) (V, bool) {
	list.lock.Lock()
	defer list.lock.Unlock()

	n, ok := list.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	n.accessCnt++
	return n.value, true
}

// Put adds or updates a key-value pair
func (list *LRU[K, V]) Put(key K, value V, onEvict ...EvictionCallback[K, V]) {
	list.lock.Lock()
	defer list.lock.Unlock()

	if n, ok := list.items[key]; ok {
		n.value = value
		n.accessCnt++
		if len(onEvict) > 0 && onEvict[0] != nil {
			n.onEvict = onEvict[0]
		}
		return
	}

	if int64(len(list.items)) >= list.capacity {
		list.evict()
	}

	list.clock++
	n := &node[K, V]{
		key:       key,
		value:     value,
		accessCnt: 1,
		timestamp: list.clock,
		prev:      list.tail,
	}
	if len(onEvict) > 0 {
		n.onEvict = onEvict[0]
	}

	if list.tail != nil {
		list.tail.next = n
	} else {
		list.head = n
	}
	list.tail = n
	list.items[key] = n
}

// Delete removes a key without calling its eviction callback
func (list *LRU[K, V]) Delete(key K) bool {
	list.lock.Lock()
	defer list.lock.Unlock()

	n, ok := list.items[key]
	if !ok {
		return false
	}
	list.unlink(n)
	return true
}

func (list *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		list.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		list.tail = n.prev
	}
	delete(list.items, n.key)
}

// Length returns the number of entries
func (list *LRU[K, V]) Length() int64 {
	list.lock.Lock()
	defer list.lock.Unlock()
	return int64(len(list.items))
}

// evict removes the lowest scoring evictRatio share of entries
func (list *LRU[K, V]) evict() {
	length := len(list.items)
	toEvict := int(float64(length) * list.evictRatio)
	if toEvict < 1 {
		toEvict = 1
	}

	type scoredNode struct {
		node  *node[K, V]
		score float64
	}

	maxAccess := uint64(1)
	oldest, newest := list.head.timestamp, list.tail.timestamp
	for n := list.head; n != nil; n = n.next {
		if n.accessCnt > maxAccess {
			maxAccess = n.accessCnt
		}
	}
	if newest == oldest {
		newest = oldest + 1
	}

	scored := make([]scoredNode, 0, length)
	for n := list.head; n != nil; n = n.next {
		accessNorm := float64(n.accessCnt) / float64(maxAccess)
		timeNorm := float64(n.timestamp-oldest) / float64(newest-oldest)

		// Higher means less likely to be evicted
		score := (list.accessWeight * accessNorm) + (list.timeWeight * timeNorm)
		scored = append(scored, scoredNode{node: n, score: score})
	}

	// Ties go to the oldest
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score < scored[j].score
	})

	for i := 0; i < toEvict && i < len(scored); i++ {
		n := scored[i].node
		if n.onEvict != nil {
			n.onEvict(n.key, n.value)
		}
		list.unlink(n)
	}
}

// ForEach visits entries oldest first until fn returns false
func (list *LRU[K, V]) ForEach(fn func(key K, value V, accessCount uint64) bool) {
	list.lock.Lock()
	defer list.lock.Unlock()

	for n := list.head; n != nil; n = n.next {
		if !fn(n.key, n.value, n.accessCnt) {
			return
		}
	}
}

// Clear empties the cache without calling eviction callbacks
func (list *LRU[K, V]) Clear() {
	list.lock.Lock()
	defer list.lock.Unlock()

	list.items = make(map[K]*node[K, V])
	list.head = nil
	list.tail = nil
}
