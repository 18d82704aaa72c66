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

import (
	"slices"
	"testing"
)

func TestListPushPop(t *testing.T) {
	l := New[int]()

	if _, ok := l.PopFront(); ok {
		t.Fatalf("expected empty list")
	}

	l.PushBack(2)
	l.PushBack(3)
	l.PushFront(1)

	if l.Len() != 3 {
		t.Errorf("expected len 3, got %d", l.Len())
	}

	if v, ok := l.Front(); !ok || v != 1 {
		t.Errorf("expected front 1, got %v", v)
	}
	if v, ok := l.Back(); !ok || v != 3 {
		t.Errorf("expected back 3, got %v", v)
	}

	got := slices.Collect(l.All())
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("unexpected order %v", got)
	}

	for _, want := range []int{1, 2, 3} {
		if v, ok := l.PopFront(); !ok || v != want {
			t.Errorf("expected %d, got %v", want, v)
		}
	}

	if !l.IsEmpty() {
		t.Errorf("expected empty list")
	}
	if _, ok := l.Back(); ok {
		t.Errorf("tail should be cleared with the last element")
	}
}

func TestListRemove(t *testing.T) {
	l := New[string]()
	for _, s := range []string{"a", "b", "c", "b"} {
		l.PushBack(s)
	}

	if !l.Remove("b") {
		t.Fatalf("expected b to be removed")
	}
	if got := slices.Collect(l.All()); !slices.Equal(got, []string{"a", "c", "b"}) {
		t.Errorf("only the first occurrence should go, got %v", got)
	}

	// Removing the tail must move the tail pointer
	if !l.Remove("b") {
		t.Fatalf("expected second b to be removed")
	}
	l.PushBack("d")
	if got := slices.Collect(l.All()); !slices.Equal(got, []string{"a", "c", "d"}) {
		t.Errorf("unexpected list after tail removal %v", got)
	}

	if l.Remove("zz") {
		t.Errorf("removing an absent value should report false")
	}

	if !l.Contains("c") || l.Contains("b") {
		t.Errorf("contains is wrong")
	}

	if v, ok := l.Find(func(s string) bool { return s > "b" }); !ok || v != "c" {
		t.Errorf("expected c, got %v", v)
	}

	l.Clear()
	if l.Len() != 0 || l.Contains("a") {
		t.Errorf("expected empty list after clear")
	}
}
