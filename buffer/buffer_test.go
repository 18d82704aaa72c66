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
	"fmt"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestBasicOperations(t *testing.T) {
	b, err := New[string](10)
	if err != nil {
		t.Fatalf("Failed to create buffer: %v", err)
	}

	slot := b.Add("test1")

	value, err := b.Get(slot)
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	if value != "test1" {
		t.Errorf("Expected 'test1', got %v", value)
	}

	err = b.Update(slot, "updated")
	if err != nil {
		t.Fatalf("Failed to update item: %v", err)
	}

	if value = b.At(slot); value != "updated" {
		t.Errorf("Expected 'updated', got %v", value)
	}

	err = b.Remove(slot)
	if err != nil {
		t.Fatalf("Failed to remove item: %v", err)
	}

	_, err = b.Get(slot)
	if !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("Expected ErrSlotEmpty when getting removed item, got %v", err)
	}

	if err = b.Remove(slot); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("Expected ErrSlotEmpty on double remove, got %v", err)
	}

	if _, err = b.Get(99); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("Expected ErrInvalidSlot, got %v", err)
	}

	if err = b.Update(-1, "x"); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("Expected ErrInvalidSlot, got %v", err)
	}
}

func TestInvalidCapacity(t *testing.T) {
	if _, err := New[int](0); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("Expected ErrInvalidCapacity, got %v", err)
	}
}

func TestGrowth(t *testing.T) {
	capacity := 4
	b, err := New[int](capacity)
	if err != nil {
		t.Fatalf("Failed to create buffer: %v", err)
	}

	slots := make(map[int64]int)
	for i := 0; i < 37; i++ {
		slot := b.Add(i)
		if _, dup := slots[slot]; dup {
			t.Fatalf("slot %d handed out twice", slot)
		}
		slots[slot] = i
	}

	if b.Count() != 37 {
		t.Errorf("Expected count 37, got %d", b.Count())
	}
	if b.Capacity() < 37 {
		t.Errorf("Expected capacity >= 37, got %d", b.Capacity())
	}

	for slot, want := range slots {
		if got := b.At(slot); got != want {
			t.Errorf("slot %d: expected %d, got %d", slot, want, got)
		}
	}
}

func TestSlotReuse(t *testing.T) {
	b, err := New[string](3)
	if err != nil {
		t.Fatalf("Failed to create buffer: %v", err)
	}

	s0 := b.Add("a")
	s1 := b.Add("b")
	s2 := b.Add("c")

	if err := b.Remove(s1); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}
	if err := b.Remove(s0); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}

	// Freed slots come back oldest first and the table does not grow
	if got := b.Add("d"); got != s1 {
		t.Errorf("expected slot %d to be reused, got %d", s1, got)
	}
	if got := b.Add("e"); got != s0 {
		t.Errorf("expected slot %d to be reused, got %d", s0, got)
	}
	if b.Capacity() != 3 {
		t.Errorf("expected capacity 3, got %d", b.Capacity())
	}
	if !b.Live(s2) || b.Count() != 3 {
		t.Errorf("unexpected arena state, count %d", b.Count())
	}
}

func TestAtPanicsOnDeadSlot(t *testing.T) {
	b, _ := New[int](2)
	slot := b.Add(1)
	_ = b.Remove(slot)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on dead slot access")
		}
	}()
	b.At(slot)
}

func TestForEachAndReset(t *testing.T) {
	b, _ := New[int](8)
	for i := 0; i < 6; i++ {
		b.Add(i * 10)
	}
	_ = b.Remove(2)

	var visited []int64
	b.ForEach(func(slot int64, item int) bool {
		if int64(item) != slot*10 {
			t.Errorf("slot %d holds %d", slot, item)
		}
		visited = append(visited, slot)
		return len(visited) < 4
	})
	if len(visited) != 4 || visited[2] != 3 {
		t.Errorf("unexpected visit order %v", visited)
	}

	b.Reset()
	if !b.IsEmpty() || b.Count() != 0 {
		t.Errorf("expected empty buffer after reset, count %d", b.Count())
	}
	if b.Capacity() != 8 {
		t.Errorf("reset should keep capacity, got %d", b.Capacity())
	}
}

func BenchmarkBufferAdd(b *testing.B) {
	buff, _ := New[string](1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		slot := buff.Add("benchmark data")
		_ = buff.Remove(slot)
	}
}

func BenchmarkBufferGet(b *testing.B) {
	buff, _ := New[string](1000)

	slots := make([]int64, 500)
	for i := range slots {
		slots[i] = buff.Add(fmt.Sprintf("data-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		slot := slots[rand.Intn(len(slots))]
		_, _ = buff.Get(slot)
	}
}
