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
	"github.com/GalenLovesCheese/DSA-Assignment/queue"
)

// Stats summarises the shape of a tree
type Stats struct {
	Height        int     `bson:"height"`
	Entries       int     `bson:"entries"`
	LeafNodes     int     `bson:"leaf_nodes"`
	InternalNodes int     `bson:"internal_nodes"`
	AvgLeafFill   float64 `bson:"avg_leaf_fill"` // Mean keys per leaf over MaxKeys
}

// NodeLayout is the key content of one node
type NodeLayout[K any] struct {
	Leaf bool `bson:"leaf"`
	Keys []K  `bson:"keys"`
}

// Level is every node at one depth, left to right
type Level[K any] struct {
	Depth int             `bson:"depth"`
	Nodes []NodeLayout[K] `bson:"nodes"`
}

// Stats walks the tree and reports its shape
func (bt *BPlusTree[K, V]) Stats() Stats {
	s := Stats{Height: bt.height, Entries: bt.count}

	bt.nodes.ForEach(func(_ int64, n *node[K, V]) bool {
		if n.leaf {
			s.LeafNodes++
		} else {
			s.InternalNodes++
		}
		return true
	})

	if s.LeafNodes > 0 {
		s.AvgLeafFill = float64(bt.count) / float64(s.LeafNodes*bt.MaxKeys())
	}

	return s
}

// Layout returns a breadth-first snapshot of the keys of every node
func (bt *BPlusTree[K, V]) Layout() []Level[K] {
	type item struct {
		slot  int64
		depth int
	}

	levels := make([]Level[K], 0, bt.height)
	q := queue.New[item]()
	q.Enqueue(item{slot: bt.root})

	for {
		it, ok := q.Dequeue()
		if !ok {
			break
		}

		if it.depth == len(levels) {
			levels = append(levels, Level[K]{Depth: it.depth})
		}

		n := bt.node(it.slot)
		keys := make([]K, len(n.keys))
		copy(keys, n.keys)
		levels[it.depth].Nodes = append(levels[it.depth].Nodes, NodeLayout[K]{Leaf: n.leaf, Keys: keys})

		for _, child := range n.children {
			q.Enqueue(item{slot: child, depth: it.depth + 1})
		}
	}

	return levels
}
