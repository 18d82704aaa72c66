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
	"github.com/GalenLovesCheese/DSA-Assignment/linkedlist"
	"github.com/GalenLovesCheese/DSA-Assignment/tree"
	"github.com/cockroachdb/errors"
)

// Stats describes the catalog contents and the shape of its indexes
type Stats struct {
	Actors        int        `bson:"actors"`
	Movies        int        `bson:"movies"`
	Links         int        `bson:"links"`
	NameIndex     tree.Stats `bson:"name_index"`
	BirthIndex    tree.Stats `bson:"birth_index"`
	ReleaseIndex  tree.Stats `bson:"release_index"`
	NameFilterFPP float64    `bson:"name_filter_fpp"` // Theoretical false positive rate at the current fill
	CachedQueries uint64     `bson:"cached_queries"` // Approximate
}

// Stats returns a snapshot of the catalog
func (db *DB) Stats() (Stats, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return Stats{}, ErrClosed
	}

	s := Stats{
		Actors:        db.actors.Len(),
		Movies:        db.movies.Len(),
		Links:         db.links,
		NameIndex:     db.byName.Stats(),
		BirthIndex:    db.byBirthYear.Stats(),
		ReleaseIndex:  db.byReleaseYear.Stats(),
		NameFilterFPP: db.names.CalculateTheoreticalFPP(),
	}

	if db.queries != nil && db.queries.Metrics != nil {
		s.CachedQueries = db.queries.Metrics.KeysAdded() - db.queries.Metrics.KeysEvicted()
	}

	return s, nil
}

// NameLayout returns the level by level key layout of the name index
func (db *DB) NameLayout() ([]tree.Level[string], error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	return db.byName.Layout(), nil
}

// BirthYearLayout returns the key layout of the birth year index
func (db *DB) BirthYearLayout() ([]tree.Level[YearKey], error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	return db.byBirthYear.Layout(), nil
}

// ReleaseYearLayout returns the key layout of the release year index
func (db *DB) ReleaseYearLayout() ([]tree.Level[YearKey], error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	return db.byReleaseYear.Layout(), nil
}

// Verify checks every index against the record tables
func (db *DB) Verify() error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if err := db.byName.Verify(); err != nil {
		return errors.Wrap(err, "name index")
	}
	if err := db.byBirthYear.Verify(); err != nil {
		return errors.Wrap(err, "birth year index")
	}
	if err := db.byReleaseYear.Verify(); err != nil {
		return errors.Wrap(err, "release year index")
	}

	if n := db.byName.Len(); n != db.actors.Len() {
		return errors.AssertionFailedf("name index holds %d entries for %d actors", n, db.actors.Len())
	}
	if n := db.byBirthYear.Len(); n != db.actors.Len() {
		return errors.AssertionFailedf("birth year index holds %d entries for %d actors", n, db.actors.Len())
	}
	if n := db.byReleaseYear.Len(); n != db.movies.Len() {
		return errors.AssertionFailedf("release year index holds %d entries for %d movies", n, db.movies.Len())
	}

	links := 0
	var err error
	db.actorMovies.ForEach(func(actorID int, movies *linkedlist.List[int]) bool {
		for movieID := range movies.All() {
			links++
			cast, ok := db.movieActors.Get(movieID)
			if !ok || !cast.Contains(actorID) {
				err = errors.AssertionFailedf("link %d -> %d has no reverse entry", actorID, movieID)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	if links != db.links {
		return errors.AssertionFailedf("counted %d links, expected %d", links, db.links)
	}

	return nil
}
