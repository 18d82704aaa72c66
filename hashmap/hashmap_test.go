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
	"fmt"
	"slices"
	"testing"
)

func TestMapPutGetDelete(t *testing.T) {
	m := NewInt[string]()

	if !m.Put(1, "one") {
		t.Errorf("first put should report a new key")
	}
	if m.Put(1, "uno") {
		t.Errorf("second put should report an existing key")
	}

	if v, ok := m.Get(1); !ok || v != "uno" {
		t.Errorf("expected uno, got %v", v)
	}

	if _, ok := m.Get(2); ok {
		t.Errorf("unexpected hit for absent key")
	}

	if !m.Delete(1) {
		t.Errorf("expected delete to succeed")
	}
	if m.Delete(1) {
		t.Errorf("expected second delete to fail")
	}
	if m.Len() != 0 || m.Has(1) {
		t.Errorf("expected empty map")
	}
}

func TestMapResize(t *testing.T) {
	m := NewString[int]()
	count := 1000

	for i := 0; i < count; i++ {
		m.Put(fmt.Sprintf("key%04d", i), i)
	}

	if m.Len() != count {
		t.Fatalf("expected %d entries, got %d", count, m.Len())
	}

	if float64(m.Len())/float64(m.Buckets()) > MaxLoadFactor {
		t.Errorf("load factor exceeded: %d entries in %d buckets", m.Len(), m.Buckets())
	}

	for i := 0; i < count; i++ {
		if v, ok := m.Get(fmt.Sprintf("key%04d", i)); !ok || v != i {
			t.Fatalf("key%04d: expected %d, got %v (ok=%v)", i, i, v, ok)
		}
	}

	for i := 0; i < count; i += 2 {
		m.Delete(fmt.Sprintf("key%04d", i))
	}

	keys := m.Keys()
	slices.Sort(keys)
	if len(keys) != count/2 || keys[0] != "key0001" {
		t.Errorf("unexpected keys after deletes: %d, first %v", len(keys), keys[0])
	}
}

func TestMapForEach(t *testing.T) {
	m := NewInt[int]()
	for i := 0; i < 50; i++ {
		m.Put(i, i*i)
	}

	sum := 0
	m.ForEach(func(k, v int) bool {
		if v != k*k {
			t.Errorf("key %d holds %d", k, v)
		}
		sum += k
		return true
	})
	if sum != 49*50/2 {
		t.Errorf("expected every key visited, sum %d", sum)
	}

	visited := 0
	m.ForEach(func(int, int) bool {
		visited++
		return visited < 5
	})
	if visited != 5 {
		t.Errorf("expected early stop after 5, visited %d", visited)
	}

	m.Clear()
	if m.Len() != 0 || m.Buckets() != DefaultCapacity {
		t.Errorf("expected reset map")
	}
}

func BenchmarkMapPut(b *testing.B) {
	m := NewInt[int]()
	for i := 0; i < b.N; i++ {
		m.Put(i, i)
	}
}

func BenchmarkMapGet(b *testing.B) {
	m := NewInt[int]()
	for i := 0; i < 100000; i++ {
		m.Put(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(i % 100000)
	}
}
