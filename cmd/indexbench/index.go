// Package main
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
package main

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"math"

	"github.com/GalenLovesCheese/DSA-Assignment/skiplist"
	"github.com/GalenLovesCheese/DSA-Assignment/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/btree"
)

// index is the surface every benchmarked structure is driven through
type index interface {
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, bool, error)
	Delete(key int64) error
	Range(start, end int64, visit func(key int64, value []byte) bool) error
	Close() error
}

// contender names an index and how it was configured
type contender struct {
	name   string
	config string
	open   func() (index, error)
}

// bplusIndex drives the B+tree with upsert semantics so keys stay unique
type bplusIndex struct {
	bt *tree.BPlusTree[int64, []byte]
}

func newBPlusIndex(order int) (index, error) {
	bt, err := tree.Open[int64, []byte](&tree.Options[int64]{
		Order:      order,
		Comparator: cmp.Compare[int64],
		Upsert:     true,
	})
	if err != nil {
		return nil, err
	}
	return &bplusIndex{bt: bt}, nil
}

func (b *bplusIndex) Insert(key int64, value []byte) error {
	b.bt.Insert(key, value)
	return nil
}

func (b *bplusIndex) Get(key int64) ([]byte, bool, error) {
	v, ok := b.bt.Search(key)
	return v, ok, nil
}

func (b *bplusIndex) Delete(key int64) error {
	b.bt.Delete(key)
	return nil
}

func (b *bplusIndex) Range(start, end int64, visit func(int64, []byte) bool) error {
	for k, v := range b.bt.Range(start, end) {
		if !visit(k, v) {
			break
		}
	}
	return nil
}

func (b *bplusIndex) Close() error {
	return b.bt.Verify()
}

// btreeItem is a key/value pair ordered by key in a google/btree
type btreeItem struct {
	key   int64
	value []byte
}

type btreeIndex struct {
	bt *btree.BTreeG[btreeItem]
}

func newBTreeIndex(degree int) (index, error) {
	return &btreeIndex{bt: btree.NewG(degree, func(a, b btreeItem) bool {
		return a.key < b.key
	})}, nil
}

func (b *btreeIndex) Insert(key int64, value []byte) error {
	b.bt.ReplaceOrInsert(btreeItem{key: key, value: value})
	return nil
}

func (b *btreeIndex) Get(key int64) ([]byte, bool, error) {
	item, ok := b.bt.Get(btreeItem{key: key})
	return item.value, ok, nil
}

func (b *btreeIndex) Delete(key int64) error {
	b.bt.Delete(btreeItem{key: key})
	return nil
}

func (b *btreeIndex) Range(start, end int64, visit func(int64, []byte) bool) error {
	b.bt.AscendGreaterOrEqual(btreeItem{key: start}, func(item btreeItem) bool {
		if item.key > end {
			return false
		}
		return visit(item.key, item.value)
	})
	return nil
}

func (b *btreeIndex) Close() error {
	b.bt.Clear(false)
	return nil
}

type skiplistIndex struct {
	sl *skiplist.SkipList[int64, []byte]
}

func newSkipListIndex(seed int64) (index, error) {
	return &skiplistIndex{sl: skiplist.New[int64, []byte](cmp.Compare[int64], seed)}, nil
}

func (s *skiplistIndex) Insert(key int64, value []byte) error {
	s.sl.Put(key, value)
	return nil
}

func (s *skiplistIndex) Get(key int64) ([]byte, bool, error) {
	v, ok := s.sl.Get(key)
	return v, ok, nil
}

func (s *skiplistIndex) Delete(key int64) error {
	s.sl.Delete(key)
	return nil
}

func (s *skiplistIndex) Range(start, end int64, visit func(int64, []byte) bool) error {
	for k, v := range s.sl.Range(start, end) {
		if !visit(k, v) {
			break
		}
	}
	return nil
}

func (s *skiplistIndex) Close() error {
	return nil
}

// pebbleIndex stores keys big endian with the sign bit flipped so byte order
// matches integer order
type pebbleIndex struct {
	db *pebble.DB
}

func newPebbleIndex(memtableSize uint64) (index, error) {
	db, err := pebble.Open("", &pebble.Options{
		FS:           vfs.NewMem(),
		MemTableSize: memtableSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pebble")
	}
	return &pebbleIndex{db: db}, nil
}

func encodeKey(key int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(key)^(1<<63))
	return buf[:]
}

func decodeKey(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
}

func (p *pebbleIndex) Insert(key int64, value []byte) error {
	return p.db.Set(encodeKey(key), value, pebble.NoSync)
}

func (p *pebbleIndex) Get(key int64) ([]byte, bool, error) {
	v, closer, err := p.db.Get(encodeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	out := bytes.Clone(v)
	return out, true, closer.Close()
}

func (p *pebbleIndex) Delete(key int64) error {
	return p.db.Delete(encodeKey(key), pebble.NoSync)
}

func (p *pebbleIndex) Range(start, end int64, visit func(int64, []byte) bool) error {
	if start > end {
		return nil
	}

	opts := &pebble.IterOptions{LowerBound: encodeKey(start)}
	if end < math.MaxInt64 {
		opts.UpperBound = encodeKey(end + 1)
	}

	it, err := p.db.NewIter(opts)
	if err != nil {
		return err
	}

	for valid := it.First(); valid; valid = it.Next() {
		if !visit(decodeKey(it.Key()), it.Value()) {
			break
		}
	}
	return it.Close()
}

func (p *pebbleIndex) Close() error {
	return p.db.Close()
}
