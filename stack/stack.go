// Package stack
//
// (C) Copyright OrinDB
//
// Original Author: Alex Gaetano Padula
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
package stack

import (
	"sync/atomic"
)

// node is an element of the stack
type node[T any] struct {
	value T
	next  *node[T]
}

// Stack is a lock-free LIFO of T
type Stack[T any] struct {
	head atomic.Pointer[node[T]]
	size atomic.Int64
}

// New creates a new stack
func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push adds a value to the top of the stack
func (s *Stack[T]) Push(value T) {
	n := &node[T]{value: value}

	for {
		oldHead := s.head.Load()
		n.next = oldHead

		if s.head.CompareAndSwap(oldHead, n) {
			s.size.Add(1)
			return
		}
	}
}

// Pop removes and returns the top value.
// The second return is false when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	for {
		oldHead := s.head.Load()
		if oldHead == nil {
			var zero T
			return zero, false
		}

		if s.head.CompareAndSwap(oldHead, oldHead.next) {
			s.size.Add(-1)
			return oldHead.value, true
		}
	}
}

// Peek returns the top value without removing it
func (s *Stack[T]) Peek() (T, bool) {
	h := s.head.Load()
	if h == nil {
		var zero T
		return zero, false
	}
	return h.value, true
}

// IsEmpty checks if the stack is empty
func (s *Stack[T]) IsEmpty() bool {
	return s.head.Load() == nil
}

// Len returns the number of elements in the stack
func (s *Stack[T]) Len() int {
	return int(s.size.Load())
}

// Reset drops every element
func (s *Stack[T]) Reset() {
	s.head.Store(nil)
	s.size.Store(0)
}

// ForEach visits the elements top first until f returns false
func (s *Stack[T]) ForEach(f func(item T) bool) {
	for n := s.head.Load(); n != nil; n = n.next {
		if !f(n.value) {
			return
		}
	}
}
