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
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/GalenLovesCheese/DSA-Assignment/bloomfilter"
	"github.com/GalenLovesCheese/DSA-Assignment/hashmap"
	"github.com/GalenLovesCheese/DSA-Assignment/linkedlist"
	"github.com/cockroachdb/errors"
)

// Column counts of the CSV files, each of which starts with a header row
const (
	actorColumns = 3 // id,name,year
	movieColumns = 4 // id,title,plot,year
	castColumns  = 2 // actor_id,movie_id
)

// load reads the actors, movies and cast files found in the directory
func (db *DB) load() error {
	dir := db.opts.Directory

	if err := readCSV(db, filepath.Join(dir, db.opts.ActorsFile), actorColumns, db.loadActor); err != nil {
		return err
	}

	if err := readCSV(db, filepath.Join(dir, db.opts.MoviesFile), movieColumns, db.loadMovie); err != nil {
		return err
	}

	return readCSV(db, filepath.Join(dir, db.opts.CastFile), castColumns, db.loadCast)
}

// readCSV calls row for every record after the header.  A missing file is
// skipped, a malformed row fails the load with its file and line.
func readCSV(db *DB, path string, columns int, row func(rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			db.log(fmt.Sprintf("%s not found, skipping", path))
			return nil
		}
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrapf(err, "%s: failed to read header", path)
	}

	rows := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "%s", path)
		}

		if err := row(rec); err != nil {
			line, _ := r.FieldPos(0)
			return errors.Wrapf(err, "%s:%d", path, line)
		}
		rows++
	}

	db.log(fmt.Sprintf("Loaded %d rows from %s", rows, path))
	return nil
}

func parseInt(field, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, errors.Wrapf(err, "bad %s %q", name, field)
	}
	return v, nil
}

func (db *DB) loadActor(rec []string) error {
	id, err := parseInt(rec[0], "actor id")
	if err != nil {
		return err
	}

	year, err := parseInt(rec[2], "birth year")
	if err != nil {
		return err
	}

	if db.actors.Has(id) {
		return errors.Wrapf(ErrDuplicateID, "actor %d", id)
	}

	db.actors.Put(id, &Actor{ID: id, Name: rec[1], Year: year})
	db.actorIDs.observe(id)
	return nil
}

func (db *DB) loadMovie(rec []string) error {
	id, err := parseInt(rec[0], "movie id")
	if err != nil {
		return err
	}

	year, err := parseInt(rec[3], "release year")
	if err != nil {
		return err
	}

	if db.movies.Has(id) {
		return errors.Wrapf(ErrDuplicateID, "movie %d", id)
	}

	db.movies.Put(id, &Movie{ID: id, Title: rec[1], Plot: rec[2], Year: year})
	db.movieIDs.observe(id)
	return nil
}

func (db *DB) loadCast(rec []string) error {
	actorID, err := parseInt(rec[0], "actor id")
	if err != nil {
		return err
	}

	movieID, err := parseInt(rec[1], "movie id")
	if err != nil {
		return err
	}

	if !db.actors.Has(actorID) || !db.movies.Has(movieID) {
		db.log(fmt.Sprintf("Skipping cast link %d -> %d to an unknown record", actorID, movieID))
		return nil
	}

	db.link(actorID, movieID)
	return nil
}

// link records a cast link in both adjacency lists, ignoring repeats
func (db *DB) link(actorID, movieID int) bool {
	movies := adjacency(db.actorMovies, actorID)
	if movies.Contains(movieID) {
		return false
	}

	movies.PushBack(movieID)
	adjacency(db.movieActors, movieID).PushBack(actorID)
	db.links++

	return true
}

// adjacency returns the list stored under id, creating it on first use
func adjacency(m *hashmap.Map[int, *linkedlist.List[int]], id int) *linkedlist.List[int] {
	l, ok := m.Get(id)
	if !ok {
		l = linkedlist.New[int]()
		m.Put(id, l)
	}
	return l
}

// rebuildIndexes bulk loads every index from the record tables
func (db *DB) rebuildIndexes() error {
	type named struct {
		name string
		id   int
	}

	names := make([]named, 0, db.actors.Len())
	births := make([]YearKey, 0, db.actors.Len())
	db.actors.ForEach(func(id int, a *Actor) bool {
		names = append(names, named{name: a.Name, id: id})
		births = append(births, YearKey{Year: a.Year, ID: id})
		return true
	})

	releases := make([]YearKey, 0, db.movies.Len())
	db.movies.ForEach(func(id int, m *Movie) bool {
		releases = append(releases, YearKey{Year: m.Year, ID: id})
		return true
	})

	slices.SortFunc(names, func(a, b named) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	slices.SortFunc(births, CompareYearKeys)
	slices.SortFunc(releases, CompareYearKeys)

	nameKeys := make([]string, len(names))
	nameIDs := make([]int, len(names))
	for i, n := range names {
		nameKeys[i], nameIDs[i] = n.name, n.id
	}

	if err := db.byName.BulkLoad(nameKeys, nameIDs); err != nil {
		return errors.Wrap(err, "failed to build name index")
	}

	if err := db.byBirthYear.BulkLoad(births, yearIDs(births)); err != nil {
		return errors.Wrap(err, "failed to build birth year index")
	}

	if err := db.byReleaseYear.BulkLoad(releases, yearIDs(releases)); err != nil {
		return errors.Wrap(err, "failed to build release year index")
	}

	return db.rebuildNameFilter()
}

func yearIDs(keys []YearKey) []int {
	ids := make([]int, len(keys))
	for i, k := range keys {
		ids[i] = k.ID
	}
	return ids
}

// rebuildNameFilter sizes a fresh filter for twice the current actor count
func (db *DB) rebuildNameFilter() error {
	capacity := uint(max(2*db.actors.Len(), minNameFilterCapacity))

	bf, err := bloomfilter.New(capacity, DefaultNameFilterFPR)
	if err != nil {
		return errors.Wrap(err, "failed to create name filter")
	}

	db.actors.ForEach(func(_ int, a *Actor) bool {
		bf.AddString(a.Name)
		return true
	})

	db.names = bf
	return nil
}
