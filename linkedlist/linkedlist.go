// Package linkedlist
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
package linkedlist

import "iter"

// element is a link of the list
type element[T comparable] struct {
	value T
	next  *element[T]
}

// List is a singly linked list with a tail pointer, used for adjacency
// lists (actor to movies, movie to actors) and hash table buckets
type List[T comparable] struct {
	head *element[T]
	tail *element[T]
	size int
}

// New returns an empty list
func New[T comparable]() *List[T] {
	return &List[T]{}
}

// PushBack appends value
func (l *List[T]) PushBack(value T) {
	e := &element[T]{value: value}
	if l.tail == nil {
		l.head = e
		l.tail = e
	} else {
		l.tail.next = e
		l.tail = e
	}
	l.size++
}

// PushFront prepends value
func (l *List[T]) PushFront(value T) {
	e := &element[T]{value: value, next: l.head}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.size++
}

// PopFront removes and returns the first value
func (l *List[T]) PopFront() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	e := l.head
	l.head = e.next
	if l.head == nil {
		l.tail = nil
	}
	l.size--
	return e.value, true
}

// Front returns the first value
func (l *List[T]) Front() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	return l.head.value, true
}

// Back returns the last value
func (l *List[T]) Back() (T, bool) {
	if l.tail == nil {
		var zero T
		return zero, false
	}
	return l.tail.value, true
}

// Contains reports whether target is in the list
func (l *List[T]) Contains(target T) bool {
	for e := l.head; e != nil; e = e.next {
		if e.value == target {
			return true
		}
	}
	return false
}

// Find returns the first value accepted by match
func (l *List[T]) Find(match func(T) bool) (T, bool) {
	for e := l.head; e != nil; e = e.next {
		if match(e.value) {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

// Remove unlinks the first occurrence of target
func (l *List[T]) Remove(target T) bool {
	var prev *element[T]
	for e := l.head; e != nil; prev, e = e, e.next {
		if e.value != target {
			continue
		}
		if prev == nil {
			l.head = e.next
		} else {
			prev.next = e.next
		}
		if l.tail == e {
			l.tail = prev
		}
		l.size--
		return true
	}
	return false
}

// Len returns the number of values
func (l *List[T]) Len() int {
	return l.size
}

// IsEmpty reports whether the list holds no values
func (l *List[T]) IsEmpty() bool {
	return l.size == 0
}

// All yields the values front to back
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := l.head; e != nil; e = e.next {
			if !yield(e.value) {
				return
			}
		}
	}
}

// Clear drops every value
func (l *List[T]) Clear() {
	l.head = nil
	l.tail = nil
	l.size = 0
}
