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

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
)

func TestBTreeDeleteSingle(t *testing.T) {
	bt := setupTestBTree(t, 4)
	for k := 1; k <= 10; k++ {
		bt.Insert(k, fmt.Sprintf("v%d", k))
	}

	if !bt.Delete(5) {
		t.Fatalf("expected 5 to be deleted")
	}
	mustVerify(t, bt)

	if _, ok := bt.Search(5); ok {
		t.Errorf("5 should be gone")
	}

	for _, k := range []int{1, 2, 3, 4, 6, 7, 8, 9, 10} {
		if v, ok := bt.Search(k); !ok || v != fmt.Sprintf("v%d", k) {
			t.Errorf("key %d: got %q (found=%v)", k, v, ok)
		}
	}

	if bt.Len() != 9 {
		t.Errorf("expected 9 entries, got %d", bt.Len())
	}
}

func TestBTreeDeleteAbsentIsNoop(t *testing.T) {
	bt := setupTestBTree(t, 4)

	if bt.Delete(1) {
		t.Errorf("delete on empty tree should report false")
	}

	for k := 0; k < 50; k += 2 {
		bt.Insert(k, "")
	}
	before := bt.Layout()

	for k := 1; k < 50; k += 2 {
		if bt.Delete(k) {
			t.Errorf("delete of absent key %d should report false", k)
		}
	}
	if bt.Delete(1000) || bt.Delete(-5) {
		t.Errorf("delete outside the key range should report false")
	}

	after := bt.Layout()
	if len(before) != len(after) {
		t.Fatalf("layout changed by failed deletes")
	}
	for d := range before {
		if len(before[d].Nodes) != len(after[d].Nodes) {
			t.Fatalf("layout changed at depth %d", d)
		}
		for i := range before[d].Nodes {
			if !slices.Equal(before[d].Nodes[i].Keys, after[d].Nodes[i].Keys) {
				t.Fatalf("node %d at depth %d changed", i, d)
			}
		}
	}
	mustVerify(t, bt)
}

func TestBTreeDeleteAllAscending(t *testing.T) {
	for _, order := range []int{3, 4, 5, 7} {
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			bt := setupTestBTree(t, order)
			for k := 1; k <= 200; k++ {
				bt.Insert(k, "")
			}

			for k := 1; k <= 200; k++ {
				if !bt.Delete(k) {
					t.Fatalf("failed to delete %d", k)
				}
				mustVerify(t, bt)
			}

			if bt.Len() != 0 || bt.Height() != 1 {
				t.Errorf("expected empty single-leaf tree, len %d height %d", bt.Len(), bt.Height())
			}
			if stats := bt.Stats(); stats.LeafNodes != 1 || stats.InternalNodes != 0 {
				t.Errorf("expected only the root leaf to remain, got %+v", stats)
			}
		})
	}
}

func TestBTreeDeleteDescending(t *testing.T) {
	bt := setupTestBTree(t, 3)
	for k := 1; k <= 300; k++ {
		bt.Insert(k, "")
	}

	for k := 300; k >= 1; k-- {
		if !bt.Delete(k) {
			t.Fatalf("failed to delete %d", k)
		}
		mustVerify(t, bt)
	}

	if bt.Len() != 0 || bt.Height() != 1 {
		t.Errorf("expected empty tree, len %d height %d", bt.Len(), bt.Height())
	}
}

func TestBTreeDeleteDuplicates(t *testing.T) {
	bt := setupTestBTree(t, 3)
	for i := 0; i < 20; i++ {
		bt.Insert(7, fmt.Sprintf("v%d", i))
		bt.Insert(i*3, "other")
	}

	// Oldest occurrence goes first
	if !bt.Delete(7) {
		t.Fatalf("expected delete to succeed")
	}
	mustVerify(t, bt)
	first, _ := firstValue(bt, 7)
	if first != "v1" {
		t.Errorf("expected v1 to be the oldest remaining, got %q", first)
	}

	// A value deep in the run, likely in a later leaf
	if !bt.DeleteFunc(7, func(v string) bool { return v == "v15" }) {
		t.Fatalf("expected v15 to be deleted")
	}
	mustVerify(t, bt)

	if bt.DeleteFunc(7, func(v string) bool { return v == "v15" }) {
		t.Errorf("v15 should already be gone")
	}

	if bt.Count(7) != 18 {
		t.Errorf("expected 18 entries under 7, got %d", bt.Count(7))
	}

	if v, _ := bt.Search(7); v != "v19" {
		t.Errorf("newest value should survive, got %q", v)
	}

	if n := bt.DeleteAll(7); n != 18 {
		t.Errorf("expected 18 removals, got %d", n)
	}
	if bt.Contains(7) {
		t.Errorf("7 should be gone")
	}
	mustVerify(t, bt)
}

func firstValue(bt *BPlusTree[int, string], key int) (string, bool) {
	for _, v := range bt.Range(key, key) {
		return v, true
	}
	return "", false
}

// model is a reference multimap: per key, values in insertion order
type model map[int][]string

func (m model) insert(k int, v string) { m[k] = append(m[k], v) }

func (m model) delete(k int) bool {
	if len(m[k]) == 0 {
		return false
	}
	m[k] = m[k][1:]
	if len(m[k]) == 0 {
		delete(m, k)
	}
	return true
}

func (m model) scan(lo, hi int) []string {
	var keys []int
	for k := range m {
		if k >= lo && k <= hi {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var out []string
	for _, k := range keys {
		for _, v := range m[k] {
			out = append(out, fmt.Sprintf("%d=%s", k, v))
		}
	}
	return out
}

func TestBTreeRandomOperations(t *testing.T) {
	for _, order := range []int{3, 4, 5, 6, 9, 32} {
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			r := rand.New(rand.NewSource(int64(order) * 7919))
			bt := setupTestBTree(t, order)
			ref := model{}
			size := 0

			for op := 0; op < 4000; op++ {
				k := r.Intn(300)
				switch {
				case r.Intn(100) < 55:
					v := fmt.Sprintf("%d", op)
					bt.Insert(k, v)
					ref.insert(k, v)
					size++
				default:
					want := ref.delete(k)
					if got := bt.Delete(k); got != want {
						t.Fatalf("op %d: delete(%d) = %v, expected %v", op, k, got, want)
					}
					if want {
						size--
					}
				}

				if op%50 == 0 {
					mustVerify(t, bt)
				}
				if bt.Len() != size {
					t.Fatalf("op %d: len %d, expected %d", op, bt.Len(), size)
				}
			}
			mustVerify(t, bt)

			for k, vs := range ref {
				if v, ok := bt.Search(k); !ok || v != vs[len(vs)-1] {
					t.Fatalf("search(%d) = %q, expected %q", k, v, vs[len(vs)-1])
				}
			}

			for i := 0; i < 100; i++ {
				lo := r.Intn(320) - 10
				hi := lo + r.Intn(60)

				var got []string
				for k, v := range bt.Range(lo, hi) {
					got = append(got, fmt.Sprintf("%d=%s", k, v))
				}
				if want := ref.scan(lo, hi); !slices.Equal(got, want) {
					t.Fatalf("range(%d, %d) = %v, expected %v", lo, hi, got, want)
				}
			}
		})
	}
}
