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
	"fmt"
	"sync"
	"testing"
)

func TestLRUBasicOperations(t *testing.T) {
	lru := New[string, string](10, 0.25, 0.7)

	if lru.Length() != 0 {
		t.Errorf("Expected initial length 0, got %d", lru.Length())
	}

	lru.Put("key1", "value1")
	if lru.Length() != 1 {
		t.Errorf("Expected length 1 after Put, got %d", lru.Length())
	}

	val, found := lru.Get("key1")
	if !found || val != "value1" {
		t.Errorf("Expected value 'value1', got %v", val)
	}

	lru.Put("key1", "value1-updated")
	val, found = lru.Get("key1")
	if !found || val != "value1-updated" {
		t.Errorf("Expected updated value 'value1-updated', got %v", val)
	}

	if _, found = lru.Get("nonexistent"); found {
		t.Error("Expected not to find nonexistent key, but found")
	}

	if !lru.Delete("key1") {
		t.Error("Delete operation failed")
	}
	if lru.Delete("key1") {
		t.Error("Second delete should fail")
	}

	if lru.Length() != 0 {
		t.Errorf("Expected length 0 after Delete, got %d", lru.Length())
	}
}

func TestLRUCapacityAndEviction(t *testing.T) {
	lru := New[int, string](4, 0.5, 0.7)

	for i := 0; i < 4; i++ {
		lru.Put(i, fmt.Sprintf("v%d", i))
	}

	// Keys 2 and 3 become hot
	for i := 0; i < 5; i++ {
		lru.Get(2)
		lru.Get(3)
	}

	var evicted []int
	onEvict := func(key int, _ string) { evicted = append(evicted, key) }
	lru.Put(4, "v4", onEvict)

	// Half of four entries go, the cold ones first
	if lru.Length() != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", lru.Length())
	}
	for _, k := range []int{0, 1} {
		if _, ok := lru.Get(k); ok {
			t.Errorf("cold key %d should have been evicted", k)
		}
	}
	for _, k := range []int{2, 3, 4} {
		if _, ok := lru.Get(k); !ok {
			t.Errorf("key %d should have survived", k)
		}
	}

	// Callback belongs to key 4 which was not evicted
	if len(evicted) != 0 {
		t.Errorf("unexpected callbacks %v", evicted)
	}
}

func TestLRUEvictionCallback(t *testing.T) {
	lru := New[string, int](2, 0.5, 0.7)

	var evicted []string
	onEvict := func(key string, _ int) { evicted = append(evicted, key) }

	lru.Put("a", 1, onEvict)
	lru.Put("b", 2, onEvict)
	lru.Get("b")
	lru.Put("c", 3, onEvict)

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("expected a to be evicted, got %v", evicted)
	}
}

func TestLRUClearAndForEach(t *testing.T) {
	lru := New[int, int](0, 0, -1)
	for i := 0; i < 100; i++ {
		lru.Put(i, i*i)
	}

	seen := 0
	lru.ForEach(func(key, value int, accessCount uint64) bool {
		if value != key*key || accessCount != 1 {
			t.Errorf("key %d: value %d, accesses %d", key, value, accessCount)
		}
		seen++
		return seen < 10
	})
	if seen != 10 {
		t.Errorf("expected early stop at 10, saw %d", seen)
	}

	lru.Clear()
	if lru.Length() != 0 {
		t.Errorf("expected empty cache after clear")
	}
	lru.Put(1, 1)
	if v, ok := lru.Get(1); !ok || v != 1 {
		t.Errorf("cache should be usable after clear")
	}
}

func TestLRUConcurrentAccess(t *testing.T) {
	lru := New[int, int](100, 0.25, 0.7)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				k := base*1000 + i%150
				lru.Put(k, i)
				lru.Get(k)
				if i%7 == 0 {
					lru.Delete(k)
				}
			}
		}(g)
	}
	wg.Wait()

	if lru.Length() > 100 {
		t.Errorf("capacity exceeded: %d", lru.Length())
	}
}

func BenchmarkLRUPut(b *testing.B) {
	lru := New[int, int](1000, 0.25, 0.7)
	for i := 0; i < b.N; i++ {
		lru.Put(i, i)
	}
}

func BenchmarkLRUGet(b *testing.B) {
	lru := New[int, int](1000, 0.25, 0.7)
	for i := 0; i < 1000; i++ {
		lru.Put(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lru.Get(i % 1000)
	}
}
