// Package queue
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
package queue

import (
	"sync/atomic"
)

// node is a single link of the queue
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Queue is a non-blocking FIFO of T (Michael-Scott style, sentinel headed)
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
	size atomic.Int64
}

// New creates an empty queue
func New[T any]() *Queue[T] {
	sentinel := &node[T]{}
	q := &Queue[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Enqueue appends value at the tail
func (q *Queue[T]) Enqueue(value T) {
	n := &node[T]{value: value}

	for {
		tail := q.tail.Load()
		next := tail.next.Load()

		if tail != q.tail.Load() {
			continue
		}

		if next != nil {
			// Tail is lagging, help it along
			q.tail.CompareAndSwap(tail, next)
			continue
		}

		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			q.size.Add(1)
			return
		}
	}
}

// Dequeue removes the value at the head.
// The second return is false when the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()

		if head != q.head.Load() {
			continue
		}

		if head == tail {
			if next == nil {
				return zero, false
			}
			q.tail.CompareAndSwap(tail, next)
			continue
		}

		if next == nil {
			continue
		}

		value := next.value
		if q.head.CompareAndSwap(head, next) {
			q.size.Add(-1)
			return value, true
		}
	}
}

// Peek returns the value at the head without removing it
func (q *Queue[T]) Peek() (T, bool) {
	next := q.head.Load().next.Load()
	if next == nil {
		var zero T
		return zero, false
	}
	return next.value, true
}

// IsEmpty returns true if the queue holds no values
func (q *Queue[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Size returns the number of queued values
func (q *Queue[T]) Size() int64 {
	return q.size.Load()
}

// List returns the queued values, head first.
// *Not atomic with respect to concurrent producers/consumers
func (q *Queue[T]) List() []T {
	result := make([]T, 0, q.Size())
	q.ForEach(func(v T) bool {
		result = append(result, v)
		return true
	})
	return result
}

// ForEach calls f for each queued value, head first, until f returns false
func (q *Queue[T]) ForEach(f func(item T) bool) {
	next := q.head.Load().next.Load()
	for next != nil {
		if !f(next.value) {
			return
		}
		next = next.next.Load()
	}
}
