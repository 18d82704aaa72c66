// Package buffer
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
package buffer

import (
	"github.com/GalenLovesCheese/DSA-Assignment/queue"
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidCapacity is returned by New for a non-positive capacity
	ErrInvalidCapacity = errors.New("capacity must be greater than 0")
	// ErrInvalidSlot is returned for slot ids outside the arena
	ErrInvalidSlot = errors.New("invalid slot ID")
	// ErrSlotEmpty is returned for slot ids that hold no item
	ErrSlotEmpty = errors.New("item not found")
)

// entry is a buffer entry
type entry[T any] struct {
	value T
}

// Buffer is a slot arena: items are addressed by a stable int64 slot id and
// freed slots are handed out again, oldest first.
// The arena grows on demand.
// *Writers must be serialised by the caller; concurrent readers are fine while no writer runs
type Buffer[T any] struct {
	buffer         []*entry[T]         // Slot table
	capacity       int64               // Current size of the slot table
	availableSlots *queue.Queue[int64] // Queue of free slots
}

// New creates a new buffer with the specified initial capacity
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	buff := &Buffer[T]{
		buffer:         make([]*entry[T], capacity),
		capacity:       int64(capacity),
		availableSlots: queue.New[int64](),
	}

	for i := 0; i < capacity; i++ {
		buff.availableSlots.Enqueue(int64(i))
	}

	return buff, nil
}

// grow doubles the slot table and publishes the new slots as free
func (buff *Buffer[T]) grow() {
	newCapacity := buff.capacity * 2
	table := make([]*entry[T], newCapacity)
	copy(table, buff.buffer)

	for i := buff.capacity; i < newCapacity; i++ {
		buff.availableSlots.Enqueue(i)
	}

	buff.buffer = table
	buff.capacity = newCapacity
}

// Add stores item in a free slot and returns the slot id
func (buff *Buffer[T]) Add(item T) int64 {
	slot, ok := buff.availableSlots.Dequeue()
	if !ok {
		buff.grow()
		slot, _ = buff.availableSlots.Dequeue()
	}

	buff.buffer[slot] = &entry[T]{value: item}
	return slot
}

// Get retrieves an item by its slot id
func (buff *Buffer[T]) Get(slot int64) (T, error) {
	var zero T
	if slot < 0 || slot >= buff.capacity {
		return zero, errors.Wrapf(ErrInvalidSlot, "slot %d", slot)
	}

	e := buff.buffer[slot]
	if e == nil {
		return zero, errors.Wrapf(ErrSlotEmpty, "slot %d", slot)
	}

	return e.value, nil
}

// At is Get for slots the caller knows to be live; it panics otherwise
func (buff *Buffer[T]) At(slot int64) T {
	v, err := buff.Get(slot)
	if err != nil {
		panic(errors.AssertionFailedf("buffer: dead slot access: %v", err))
	}
	return v
}

// Live reports whether slot currently holds an item
func (buff *Buffer[T]) Live(slot int64) bool {
	return slot >= 0 && slot < buff.capacity && buff.buffer[slot] != nil
}

// Remove clears a slot and releases it for reuse
func (buff *Buffer[T]) Remove(slot int64) error {
	if slot < 0 || slot >= buff.capacity {
		return errors.Wrapf(ErrInvalidSlot, "slot %d", slot)
	}

	if buff.buffer[slot] == nil {
		return errors.Wrapf(ErrSlotEmpty, "slot %d", slot)
	}

	buff.buffer[slot] = nil
	buff.availableSlots.Enqueue(slot)

	return nil
}

// Update replaces the item at the given slot
func (buff *Buffer[T]) Update(slot int64, newValue T) error {
	if slot < 0 || slot >= buff.capacity {
		return errors.Wrapf(ErrInvalidSlot, "slot %d", slot)
	}

	if buff.buffer[slot] == nil {
		return errors.Wrapf(ErrSlotEmpty, "slot %d", slot)
	}

	buff.buffer[slot] = &entry[T]{value: newValue}
	return nil
}

// Count returns the number of items currently in the buffer
func (buff *Buffer[T]) Count() int64 {
	return buff.capacity - buff.availableSlots.Size()
}

// IsEmpty returns true if the buffer contains no items
func (buff *Buffer[T]) IsEmpty() bool {
	return buff.Count() == 0
}

// Capacity returns the current size of the slot table
func (buff *Buffer[T]) Capacity() int64 {
	return buff.capacity
}

// ForEach applies function f to each live item in slot order
// Returns early if f returns false
func (buff *Buffer[T]) ForEach(f func(slot int64, item T) bool) {
	for i := int64(0); i < buff.capacity; i++ {
		e := buff.buffer[i]
		if e != nil {
			if !f(i, e.value) {
				return
			}
		}
	}
}

// Reset drops every item and frees all slots, keeping the current capacity
func (buff *Buffer[T]) Reset() {
	buff.buffer = make([]*entry[T], buff.capacity)
	buff.availableSlots = queue.New[int64]()
	for i := int64(0); i < buff.capacity; i++ {
		buff.availableSlots.Enqueue(i)
	}
}
