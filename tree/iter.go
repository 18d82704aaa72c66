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

import "iter"

// Range yields the entries with start <= key <= end in ascending order.
// The sequence stops early if the tree is modified while it is being consumed.
func (bt *BPlusTree[K, V]) Range(start, end K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if bt.cmp(start, end) > 0 {
			return
		}

		version := bt.version
		n, i := bt.seek(start)
		bt.scan(n, i, version, func(k K, v V) bool {
			return bt.cmp(k, end) <= 0 && yield(k, v)
		})
	}
}

// Values yields the values of the entries with start <= key <= end
func (bt *BPlusTree[K, V]) Values(start, end K) iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range bt.Range(start, end) {
			if !yield(v) {
				return
			}
		}
	}
}

// All yields every entry in ascending key order
func (bt *BPlusTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		bt.scan(bt.firstLeaf(), 0, bt.version, yield)
	}
}

// scan walks the leaf chain from position i of n until f returns false,
// the chain ends or the tree version moves away from version
func (bt *BPlusTree[K, V]) scan(n *node[K, V], i int, version uint64, f func(K, V) bool) {
	for {
		for ; i < len(n.keys); i++ {
			if !f(n.keys[i], n.values[i]) {
				return
			}
			if bt.version != version {
				return
			}
		}
		if n.next == noSlot {
			return
		}
		n = bt.node(n.next)
		i = 0
	}
}

// Iterator is a cursor over the leaf chain.
// It holds no lock; once the tree is modified the iterator reports
// ErrIteratorInvalidated and stops until it is re-positioned with Seek or SeekToFirst.
type Iterator[K any, V any] struct {
	bt       *BPlusTree[K, V] // Tree being iterated
	leaf     *node[K, V]      // Current leaf
	idx      int              // Index within the current leaf
	start    K                // Lower bound for range iteration
	end      K                // Upper bound for range iteration
	bounded  bool             // Whether start/end apply
	finished bool             // Set once the cursor ran off the end
	version  uint64           // Tree version the cursor was positioned against
	err      error
}

// RangeIterator returns a cursor over the entries with start <= key <= end
func (bt *BPlusTree[K, V]) RangeIterator(start, end K) *Iterator[K, V] {
	it := &Iterator[K, V]{
		bt:      bt,
		start:   start,
		end:     end,
		bounded: true,
	}
	it.Seek(start)
	return it
}

// Iterator returns a cursor over every entry, positioned at the smallest key
func (bt *BPlusTree[K, V]) Iterator() *Iterator[K, V] {
	it := &Iterator[K, V]{bt: bt}
	it.SeekToFirst()
	return it
}

// stale checks the version snapshot and latches ErrIteratorInvalidated
func (it *Iterator[K, V]) stale() bool {
	if it.err != nil {
		return true
	}
	if it.version != it.bt.version {
		it.err = ErrIteratorInvalidated
		it.finished = true
		return true
	}
	return false
}

// Seek positions the iterator at the first key >= key.
// For a range iterator keys below the range start seek to the start.
func (it *Iterator[K, V]) Seek(key K) {
	if it.bounded && it.bt.cmp(key, it.start) < 0 {
		key = it.start
	}

	it.version = it.bt.version
	it.err = nil
	it.finished = false
	it.leaf, it.idx = it.bt.seek(key)
}

// SeekToFirst positions the iterator at the first key of its range
func (it *Iterator[K, V]) SeekToFirst() {
	if it.bounded {
		it.Seek(it.start)
		return
	}

	it.version = it.bt.version
	it.err = nil
	it.finished = false
	it.leaf, it.idx = it.bt.firstLeaf(), 0
	it.skipExhausted()
}

// skipExhausted moves past leaves with nothing left at or after idx
func (it *Iterator[K, V]) skipExhausted() {
	for it.idx >= len(it.leaf.keys) {
		if it.leaf.next == noSlot {
			it.finished = true
			return
		}
		it.leaf = it.bt.node(it.leaf.next)
		it.idx = 0
	}
}

// Valid returns true if the iterator is positioned at an entry
func (it *Iterator[K, V]) Valid() bool {
	if it.finished || it.leaf == nil || it.stale() {
		return false
	}

	if it.idx >= len(it.leaf.keys) {
		return false
	}

	if it.bounded {
		if it.bt.cmp(it.start, it.end) > 0 {
			return false
		}
		if it.bt.cmp(it.leaf.keys[it.idx], it.end) > 0 {
			return false
		}
	}

	return true
}

// Key returns the current key (without advancing the iterator)
func (it *Iterator[K, V]) Key() K {
	if !it.Valid() {
		var zero K
		return zero
	}
	return it.leaf.keys[it.idx]
}

// Value returns the current value (without advancing the iterator)
func (it *Iterator[K, V]) Value() V {
	if !it.Valid() {
		var zero V
		return zero
	}
	return it.leaf.values[it.idx]
}

// Peek returns the current entry without advancing the iterator
func (it *Iterator[K, V]) Peek() (K, V, bool) {
	if !it.Valid() {
		var (
			k K
			v V
		)
		return k, v, false
	}
	return it.leaf.keys[it.idx], it.leaf.values[it.idx], true
}

// Next advances to the following entry and reports whether it is valid
func (it *Iterator[K, V]) Next() bool {
	if it.finished || it.leaf == nil || it.stale() {
		return false
	}

	it.idx++
	it.skipExhausted()

	return it.Valid()
}

// NextItem returns the current entry and advances the iterator
func (it *Iterator[K, V]) NextItem() (K, V, bool) {
	k, v, ok := it.Peek()
	if ok {
		it.Next()
	}
	return k, v, ok
}

// Err returns ErrIteratorInvalidated once the tree changed under the iterator
func (it *Iterator[K, V]) Err() error {
	return it.err
}
