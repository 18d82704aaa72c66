// Package moviedb
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
package moviedb

import (
	"math"
	"sync/atomic"
)

// idGenerator hands out record ids above every id it has seen
type idGenerator struct {
	lastID atomic.Int64
}

// observe raises the generator past an id assigned elsewhere
func (g *idGenerator) observe(id int) {
	for {
		last := g.lastID.Load()
		if int64(id) <= last {
			return
		}
		if g.lastID.CompareAndSwap(last, int64(id)) {
			return
		}
	}
}

// nextID returns the next id, wrapping to 1 after the largest int
func (g *idGenerator) nextID() int {
	for {
		last := g.lastID.Load()
		next := last + 1
		if last >= math.MaxInt {
			next = 1
		}

		if g.lastID.CompareAndSwap(last, next) {
			return int(next)
		}
	}
}

// last returns the most recent id handed out or observed
func (g *idGenerator) last() int {
	return int(g.lastID.Load())
}
