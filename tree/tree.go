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
	"bytes"
	"cmp"
	"sort"

	"github.com/GalenLovesCheese/DSA-Assignment/buffer"
	"github.com/GalenLovesCheese/DSA-Assignment/internal/invariants"
	"github.com/cockroachdb/errors"
)

const (
	DefaultOrder = 128 // Default maximum number of children per node
	MinOrder     = 3   // Smallest order that still allows a split to leave both halves non-empty

	initialArenaCapacity = 16
	noSlot               = int64(-1) // Terminates the leaf chain
)

var (
	// ErrInvalidOrder is returned for orders below MinOrder
	ErrInvalidOrder = errors.New("order must be at least 3")
	// ErrNilComparator is returned when no comparator is configured
	ErrNilComparator = errors.New("comparator must not be nil")
	// ErrLengthMismatch is returned by BulkLoad when keys and values differ in length
	ErrLengthMismatch = errors.New("keys and values differ in length")
	// ErrUnsorted is returned by BulkLoad when keys are not in ascending order
	ErrUnsorted = errors.New("keys are not in ascending order")
	// ErrIteratorInvalidated is reported by an iterator whose tree was modified under it
	ErrIteratorInvalidated = errors.New("tree modified during iteration")
)

// Comparator orders keys: negative if a < b, zero if equal, positive if a > b
type Comparator[K any] func(a, b K) int

// BytesComparator orders byte slices lexicographically
func BytesComparator(a, b []byte) int {
	return bytes.Compare(a, b)
}

// Options configures a tree
type Options[K any] struct {
	Order      int           // Maximum children per internal node, MaxKeys is Order-1
	Comparator Comparator[K] // Key ordering
	Upsert     bool          // Replace the newest value on a duplicate key instead of appending
}

// BPlusTree is an in-memory B+tree.
// Values live only in leaves, leaves are chained left to right for range scans.
// Nodes are owned by a slot arena and reference each other by slot id; there are
// no parent pointers, structural changes carry the root-to-leaf path explicitly.
// *Not safe for concurrent mutation, callers serialise writers
type BPlusTree[K any, V any] struct {
	nodes   *buffer.Buffer[*node[K, V]] // Node arena
	root    int64                       // Slot of the root node
	height  int                         // Levels, 1 for a lone leaf root
	count   int                         // Number of entries
	order   int
	minKeys int
	cmp     Comparator[K]
	upsert  bool
	version uint64 // Bumped by every mutation, iterators compare against it
}

// node is either a leaf (keys aligned with values) or an internal node
// (len(children) == len(keys)+1).  Child i of an internal node holds keys k
// with keys[i-1] <= k <= keys[i].
type node[K any, V any] struct {
	leaf     bool
	keys     []K
	values   []V
	children []int64
	next     int64 // Next leaf, noSlot for the last one
}

// frame is one step of a root-to-leaf path
type frame struct {
	parent int64 // Slot of the internal node
	idx    int   // Index of the child taken
}

// Open creates an empty tree configured by opts
func Open[K any, V any](opts *Options[K]) (*BPlusTree[K, V], error) {
	if opts == nil {
		return nil, ErrNilComparator
	}

	order := opts.Order
	if order == 0 {
		order = DefaultOrder
	}

	if order < MinOrder {
		return nil, errors.Wrapf(ErrInvalidOrder, "got %d", order)
	}

	if opts.Comparator == nil {
		return nil, ErrNilComparator
	}

	bt := &BPlusTree[K, V]{
		order:   order,
		minKeys: (order+1)/2 - 1,
		cmp:     opts.Comparator,
		upsert:  opts.Upsert,
	}

	bt.nodes, bt.root = bt.emptyArena()
	bt.height = 1

	return bt, nil
}

// New creates an empty tree over naturally ordered keys
func New[K cmp.Ordered, V any](order int) (*BPlusTree[K, V], error) {
	return Open[K, V](&Options[K]{Order: order, Comparator: cmp.Compare[K]})
}

// NewWithComparator creates an empty tree ordered by c
func NewWithComparator[K any, V any](order int, c Comparator[K]) (*BPlusTree[K, V], error) {
	return Open[K, V](&Options[K]{Order: order, Comparator: c})
}

// emptyArena returns a fresh arena holding a single empty leaf
func (bt *BPlusTree[K, V]) emptyArena() (*buffer.Buffer[*node[K, V]], int64) {
	arena, _ := buffer.New[*node[K, V]](initialArenaCapacity)
	return arena, arena.Add(bt.newLeaf())
}

func (bt *BPlusTree[K, V]) newLeaf() *node[K, V] {
	return &node[K, V]{
		leaf:   true,
		keys:   make([]K, 0, bt.order),
		values: make([]V, 0, bt.order),
		next:   noSlot,
	}
}

func (bt *BPlusTree[K, V]) newInternal() *node[K, V] {
	return &node[K, V]{
		keys:     make([]K, 0, bt.order),
		children: make([]int64, 0, bt.order+1),
		next:     noSlot,
	}
}

// node resolves a slot id
func (bt *BPlusTree[K, V]) node(slot int64) *node[K, V] {
	return bt.nodes.At(slot)
}

// lowerBound finds the first index with keys[i] >= key
func (bt *BPlusTree[K, V]) lowerBound(keys []K, key K) int {
	return sort.Search(len(keys), func(i int) bool {
		return bt.cmp(keys[i], key) >= 0
	})
}

// upperBound finds the first index with keys[i] > key
func (bt *BPlusTree[K, V]) upperBound(keys []K, key K) int {
	return sort.Search(len(keys), func(i int) bool {
		return bt.cmp(keys[i], key) > 0
	})
}

// descend walks from the root to the leaf that may hold the first occurrence
// of key, recording the path when one is given
func (bt *BPlusTree[K, V]) descend(key K, path func(frame)) (int64, *node[K, V]) {
	slot := bt.root
	n := bt.node(slot)
	for !n.leaf {
		i := bt.lowerBound(n.keys, key)
		if path != nil {
			path(frame{parent: slot, idx: i})
		}
		slot = n.children[i]
		n = bt.node(slot)
	}
	return slot, n
}

// seek returns the leaf and index of the first key >= key, skipping exhausted
// and empty leaves.  The index equals len(keys) when no such key exists.
func (bt *BPlusTree[K, V]) seek(key K) (*node[K, V], int) {
	_, n := bt.descend(key, nil)
	i := bt.lowerBound(n.keys, key)
	for i >= len(n.keys) && n.next != noSlot {
		n = bt.node(n.next)
		i = 0
	}
	return n, i
}

// firstLeaf returns the leftmost leaf
func (bt *BPlusTree[K, V]) firstLeaf() *node[K, V] {
	n := bt.node(bt.root)
	for !n.leaf {
		n = bt.node(n.children[0])
	}
	return n
}

// mutated records a structural or value change
func (bt *BPlusTree[K, V]) mutated() {
	bt.version++
	if invariants.Enabled {
		if err := bt.Verify(); err != nil {
			panic(err)
		}
	}
}

// Len returns the number of entries
func (bt *BPlusTree[K, V]) Len() int {
	return bt.count
}

// Height returns the number of levels, 1 for a tree that is a single leaf
func (bt *BPlusTree[K, V]) Height() int {
	return bt.height
}

// Order returns the maximum number of children per internal node
func (bt *BPlusTree[K, V]) Order() int {
	return bt.order
}

// MaxKeys returns the most keys any node holds between operations
func (bt *BPlusTree[K, V]) MaxKeys() int {
	return bt.order - 1
}

// MinKeys returns the fewest keys a non-root node holds between operations
func (bt *BPlusTree[K, V]) MinKeys() int {
	return bt.minKeys
}

// Comparator returns the key ordering of the tree
func (bt *BPlusTree[K, V]) Comparator() Comparator[K] {
	return bt.cmp
}
