// Package hashmap
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
package hashmap

import (
	"encoding/binary"
	"iter"

	"github.com/GalenLovesCheese/DSA-Assignment/linkedlist"
	"github.com/cespare/xxhash/v2"
)

const (
	DefaultCapacity = 16   // Initial bucket count
	MaxLoadFactor   = 0.75 // Entries per bucket before the table doubles
)

// Hasher maps a key to a 64-bit hash
type Hasher[K comparable] func(key K) uint64

// entry is a key/value pair chained in a bucket
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Map is a separate-chaining hash table
type Map[K comparable, V any] struct {
	hasher  Hasher[K]
	buckets []*linkedlist.List[*entry[K, V]]
	size    int
}

// New creates a map with the given hasher and initial bucket count
func New[K comparable, V any](hasher Hasher[K], capacity int) *Map[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Map[K, V]{
		hasher:  hasher,
		buckets: make([]*linkedlist.List[*entry[K, V]], capacity),
	}
}

// HashInt hashes the little-endian bytes of key
func HashInt(key int) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(key))
	return xxhash.Sum64(b[:])
}

// HashString hashes the bytes of key
func HashString(key string) uint64 {
	return xxhash.Sum64String(key)
}

// NewInt creates a map keyed by int
func NewInt[V any]() *Map[int, V] {
	return New[int, V](HashInt, DefaultCapacity)
}

// NewString creates a map keyed by string
func NewString[V any]() *Map[string, V] {
	return New[string, V](HashString, DefaultCapacity)
}

func (m *Map[K, V]) bucket(key K) int {
	return int(m.hasher(key) % uint64(len(m.buckets)))
}

func (m *Map[K, V]) find(key K) *entry[K, V] {
	l := m.buckets[m.bucket(key)]
	if l == nil {
		return nil
	}
	e, _ := l.Find(func(e *entry[K, V]) bool { return e.key == key })
	return e
}

// resize doubles the bucket count and rehashes every entry
func (m *Map[K, V]) resize() {
	old := m.buckets
	m.buckets = make([]*linkedlist.List[*entry[K, V]], len(old)*2)
	for _, l := range old {
		if l == nil {
			continue
		}
		for e := range l.All() {
			m.chain(e)
		}
	}
}

func (m *Map[K, V]) chain(e *entry[K, V]) {
	idx := m.bucket(e.key)
	if m.buckets[idx] == nil {
		m.buckets[idx] = linkedlist.New[*entry[K, V]]()
	}
	m.buckets[idx].PushBack(e)
}

// Put inserts or replaces the value for key.
// Returns true if key was not present before.
func (m *Map[K, V]) Put(key K, value V) bool {
	if e := m.find(key); e != nil {
		e.value = value
		return false
	}

	if float64(m.size+1)/float64(len(m.buckets)) > MaxLoadFactor {
		m.resize()
	}

	m.chain(&entry[K, V]{key: key, value: value})
	m.size++
	return true
}

// Get returns the value stored for key
func (m *Map[K, V]) Get(key K) (V, bool) {
	if e := m.find(key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Has reports whether key is present
func (m *Map[K, V]) Has(key K) bool {
	return m.find(key) != nil
}

// Delete removes key, reporting whether it was present
func (m *Map[K, V]) Delete(key K) bool {
	l := m.buckets[m.bucket(key)]
	if l == nil {
		return false
	}
	e := m.find(key)
	if e == nil {
		return false
	}
	l.Remove(e)
	m.size--
	return true
}

// Len returns the number of entries
func (m *Map[K, V]) Len() int {
	return m.size
}

// Buckets returns the current bucket count
func (m *Map[K, V]) Buckets() int {
	return len(m.buckets)
}

// ForEach visits every entry in bucket order until f returns false
func (m *Map[K, V]) ForEach(f func(key K, value V) bool) {
	for k, v := range m.All() {
		if !f(k, v) {
			return
		}
	}
}

// All yields every entry in bucket order
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, l := range m.buckets {
			if l == nil {
				continue
			}
			for e := range l.All() {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// Keys returns every key in bucket order
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Clear drops every entry and shrinks back to the default bucket count
func (m *Map[K, V]) Clear() {
	m.buckets = make([]*linkedlist.List[*entry[K, V]], DefaultCapacity)
	m.size = 0
}
