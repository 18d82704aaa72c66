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

	"github.com/cockroachdb/errors"
)

// AddActor inserts a new actor record
func (db *DB) AddActor(a Actor) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	if db.actors.Has(a.ID) {
		return errors.Wrapf(ErrDuplicateID, "actor %d", a.ID)
	}

	return db.addActor(a)
}

// CreateActor inserts an actor under a freshly allocated id
func (db *DB) CreateActor(name string, year int) (Actor, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return Actor{}, ErrClosed
	}

	a := Actor{ID: db.actorIDs.nextID(), Name: name, Year: year}
	for db.actors.Has(a.ID) {
		a.ID = db.actorIDs.nextID()
	}

	return a, db.addActor(a)
}

func (db *DB) addActor(a Actor) error {
	db.actors.Put(a.ID, &a)
	db.actorIDs.observe(a.ID)
	db.byName.Insert(a.Name, a.ID)
	db.byBirthYear.Insert(YearKey{Year: a.Year, ID: a.ID}, a.ID)

	if err := db.addName(a.Name); err != nil {
		return err
	}

	db.invalidate()
	db.log(fmt.Sprintf("Added actor %d %q", a.ID, a.Name))
	return nil
}

// AddMovie inserts a new movie record
func (db *DB) AddMovie(m Movie) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	if db.movies.Has(m.ID) {
		return errors.Wrapf(ErrDuplicateID, "movie %d", m.ID)
	}

	db.addMovie(m)
	return nil
}

// CreateMovie inserts a movie under a freshly allocated id
func (db *DB) CreateMovie(title, plot string, year int) (Movie, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return Movie{}, ErrClosed
	}

	m := Movie{ID: db.movieIDs.nextID(), Title: title, Plot: plot, Year: year}
	for db.movies.Has(m.ID) {
		m.ID = db.movieIDs.nextID()
	}

	db.addMovie(m)
	return m, nil
}

func (db *DB) addMovie(m Movie) {
	db.movies.Put(m.ID, &m)
	db.movieIDs.observe(m.ID)
	db.byReleaseYear.Insert(YearKey{Year: m.Year, ID: m.ID}, m.ID)

	db.invalidate()
	db.log(fmt.Sprintf("Added movie %d %q", m.ID, m.Title))
}

// UpdateActor replaces the name and birth year of an existing actor
func (db *DB) UpdateActor(a Actor) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	existing, ok := db.actors.Get(a.ID)
	if !ok {
		return errors.Wrapf(ErrActorNotFound, "id %d", a.ID)
	}

	if existing.Name != a.Name {
		db.byName.DeleteFunc(existing.Name, func(id int) bool { return id == a.ID })
		db.byName.Insert(a.Name, a.ID)
		if err := db.addName(a.Name); err != nil {
			return err
		}
	}

	if existing.Year != a.Year {
		db.byBirthYear.Delete(YearKey{Year: existing.Year, ID: a.ID})
		db.byBirthYear.Insert(YearKey{Year: a.Year, ID: a.ID}, a.ID)
	}

	*existing = a

	db.invalidate()
	db.log(fmt.Sprintf("Updated actor %d", a.ID))
	return nil
}

// UpdateMovie replaces the title, plot and release year of an existing movie
func (db *DB) UpdateMovie(m Movie) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	existing, ok := db.movies.Get(m.ID)
	if !ok {
		return errors.Wrapf(ErrMovieNotFound, "id %d", m.ID)
	}

	if existing.Year != m.Year {
		db.byReleaseYear.Delete(YearKey{Year: existing.Year, ID: m.ID})
		db.byReleaseYear.Insert(YearKey{Year: m.Year, ID: m.ID}, m.ID)
	}

	*existing = m

	db.invalidate()
	db.log(fmt.Sprintf("Updated movie %d", m.ID))
	return nil
}

// RemoveActor deletes an actor together with its cast links
func (db *DB) RemoveActor(id int) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	a, ok := db.actors.Get(id)
	if !ok {
		return errors.Wrapf(ErrActorNotFound, "id %d", id)
	}

	if movies, ok := db.actorMovies.Get(id); ok {
		for movieID := range movies.All() {
			if cast, ok := db.movieActors.Get(movieID); ok {
				cast.Remove(id)
			}
			db.links--
		}
		db.actorMovies.Delete(id)
	}

	db.byName.DeleteFunc(a.Name, func(v int) bool { return v == id })
	db.byBirthYear.Delete(YearKey{Year: a.Year, ID: id})
	db.actors.Delete(id)

	db.invalidate()
	db.log(fmt.Sprintf("Removed actor %d", id))
	return nil
}

// RemoveMovie deletes a movie together with its cast links
func (db *DB) RemoveMovie(id int) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	m, ok := db.movies.Get(id)
	if !ok {
		return errors.Wrapf(ErrMovieNotFound, "id %d", id)
	}

	if cast, ok := db.movieActors.Get(id); ok {
		for actorID := range cast.All() {
			if movies, ok := db.actorMovies.Get(actorID); ok {
				movies.Remove(id)
			}
			db.links--
		}
		db.movieActors.Delete(id)
	}

	db.byReleaseYear.Delete(YearKey{Year: m.Year, ID: id})
	db.movies.Delete(id)

	db.invalidate()
	db.log(fmt.Sprintf("Removed movie %d", id))
	return nil
}

// Link records that an actor appears in a movie.  Linking twice is a no-op.
func (db *DB) Link(actorID, movieID int) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	if !db.actors.Has(actorID) {
		return errors.Wrapf(ErrActorNotFound, "id %d", actorID)
	}

	if !db.movies.Has(movieID) {
		return errors.Wrapf(ErrMovieNotFound, "id %d", movieID)
	}

	if db.link(actorID, movieID) {
		db.invalidate()
		db.log(fmt.Sprintf("Linked actor %d to movie %d", actorID, movieID))
	}
	return nil
}

// Unlink removes a cast link
func (db *DB) Unlink(actorID, movieID int) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}

	movies, ok := db.actorMovies.Get(actorID)
	if !ok || !movies.Remove(movieID) {
		return errors.Wrapf(ErrLinkNotFound, "actor %d, movie %d", actorID, movieID)
	}

	if cast, ok := db.movieActors.Get(movieID); ok {
		cast.Remove(actorID)
	}
	db.links--

	db.invalidate()
	db.log(fmt.Sprintf("Unlinked actor %d from movie %d", actorID, movieID))
	return nil
}

// addName records a name in the filter, rebuilding it once it has taken
// more names than it was sized for
func (db *DB) addName(name string) error {
	db.names.AddString(name)
	if !db.names.Saturated() {
		return nil
	}

	db.log("Name filter saturated, rebuilding")
	return db.rebuildNameFilter()
}

// invalidate drops every cached query result
func (db *DB) invalidate() {
	if db.queries != nil {
		db.queries.Clear()
	}
	db.filmography.Clear()
}
