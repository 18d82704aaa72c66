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
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/btree"
)

// presentationDegree is the degree of the btrees used to order query results
const presentationDegree = 16

// Actor returns a copy of the actor record
func (db *DB) Actor(id int) (Actor, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return Actor{}, ErrClosed
	}

	a, ok := db.actors.Get(id)
	if !ok {
		return Actor{}, errors.Wrapf(ErrActorNotFound, "id %d", id)
	}
	return *a, nil
}

// Movie returns a copy of the movie record
func (db *DB) Movie(id int) (Movie, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return Movie{}, ErrClosed
	}

	m, ok := db.movies.Get(id)
	if !ok {
		return Movie{}, errors.Wrapf(ErrMovieNotFound, "id %d", id)
	}
	return *m, nil
}

// ActorsNamed returns every actor whose name is exactly name, oldest entry first
func (db *DB) ActorsNamed(name string) ([]Actor, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}

	if !db.names.ContainsString(name) {
		return nil, nil
	}

	var result []Actor
	for id := range db.byName.Values(name, name) {
		if a, ok := db.actors.Get(id); ok {
			result = append(result, *a)
		}
	}
	return result, nil
}

// ActorsWithPrefix returns the actors whose name starts with prefix, in name order
func (db *DB) ActorsWithPrefix(prefix string) ([]Actor, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}

	var result []Actor
	it := db.byName.Iterator()
	for it.Seek(prefix); it.Valid() && strings.HasPrefix(it.Key(), prefix); it.Next() {
		if a, ok := db.actors.Get(it.Value()); ok {
			result = append(result, *a)
		}
	}
	return result, it.Err()
}

// ActorsBornBetween returns the actors born in [from, to], ordered by year then id
func (db *DB) ActorsBornBetween(from, to int) ([]Actor, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}

	if from > to {
		return nil, errors.Wrapf(ErrInvalidRange, "%d > %d", from, to)
	}

	return cachedQuery(db, fmt.Sprintf("born:%d:%d", from, to), func() []Actor {
		var result []Actor
		for _, id := range db.byBirthYear.Range(YearKey{Year: from, ID: math.MinInt}, YearKey{Year: to, ID: math.MaxInt}) {
			if a, ok := db.actors.Get(id); ok {
				result = append(result, *a)
			}
		}
		return result
	}), nil
}

// MoviesReleasedBetween returns the movies released in [from, to], ordered by year then id
func (db *DB) MoviesReleasedBetween(from, to int) ([]Movie, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}

	if from > to {
		return nil, errors.Wrapf(ErrInvalidRange, "%d > %d", from, to)
	}

	return cachedQuery(db, fmt.Sprintf("released:%d:%d", from, to), func() []Movie {
		var result []Movie
		for _, id := range db.byReleaseYear.Range(YearKey{Year: from, ID: math.MinInt}, YearKey{Year: to, ID: math.MaxInt}) {
			if m, ok := db.movies.Get(id); ok {
				result = append(result, *m)
			}
		}
		return result
	}), nil
}

// cachedQuery serves a range query from the query cache, computing and
// caching it on a miss.  Callers hold the read lock, which keeps a mutation
// (and its cache clear) from landing between compute and Set.
func cachedQuery[T any](db *DB, key string, compute func() []T) []T {
	if db.queries != nil {
		if v, ok := db.queries.Get(key); ok {
			if result, ok := v.([]T); ok {
				return slices.Clone(result)
			}
		}
	}

	result := compute()

	if db.queries != nil {
		db.queries.Set(key, result, 1)
		db.queries.Wait()
	}

	return slices.Clone(result)
}

// MoviesOf returns the movies an actor appears in, ordered by title then id
func (db *DB) MoviesOf(actorID int) ([]Movie, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}

	if !db.actors.Has(actorID) {
		return nil, errors.Wrapf(ErrActorNotFound, "id %d", actorID)
	}

	key := recordKey{id: actorID}
	if v, ok := db.filmography.Get(key); ok {
		return slices.Clone(v.([]Movie)), nil
	}

	ordered := btree.NewG(presentationDegree, func(a, b Movie) bool {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	if ids, ok := db.actorMovies.Get(actorID); ok {
		for id := range ids.All() {
			if m, ok := db.movies.Get(id); ok {
				ordered.ReplaceOrInsert(*m)
			}
		}
	}

	result := make([]Movie, 0, ordered.Len())
	ordered.Ascend(func(m Movie) bool {
		result = append(result, m)
		return true
	})

	db.filmography.Put(key, result)
	return slices.Clone(result), nil
}

// CastOf returns the actors appearing in a movie, ordered by name then id
func (db *DB) CastOf(movieID int) ([]Actor, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}

	if !db.movies.Has(movieID) {
		return nil, errors.Wrapf(ErrMovieNotFound, "id %d", movieID)
	}

	key := recordKey{movie: true, id: movieID}
	if v, ok := db.filmography.Get(key); ok {
		return slices.Clone(v.([]Actor)), nil
	}

	ordered := btree.NewG(presentationDegree, func(a, b Actor) bool {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	if ids, ok := db.movieActors.Get(movieID); ok {
		for id := range ids.All() {
			if a, ok := db.actors.Get(id); ok {
				ordered.ReplaceOrInsert(*a)
			}
		}
	}

	result := make([]Actor, 0, ordered.Len())
	ordered.Ascend(func(a Actor) bool {
		result = append(result, a)
		return true
	})

	db.filmography.Put(key, result)
	return slices.Clone(result), nil
}
