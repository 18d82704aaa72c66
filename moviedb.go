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
	"sync"

	"github.com/GalenLovesCheese/DSA-Assignment/bloomfilter"
	"github.com/GalenLovesCheese/DSA-Assignment/hashmap"
	"github.com/GalenLovesCheese/DSA-Assignment/linkedlist"
	"github.com/GalenLovesCheese/DSA-Assignment/lru"
	"github.com/GalenLovesCheese/DSA-Assignment/tree"
	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/ristretto/v2"
)

// Defaults
const (
	DefaultActorsFile       = "actors.csv"
	DefaultMoviesFile       = "movies.csv"
	DefaultCastFile         = "cast.csv"
	DefaultIndexOrder       = 64   // Order of the catalog's B+tree indexes
	DefaultQueryCacheSize   = 1024 // Cached range query results
	DefaultFilmographySize  = 256  // Cached filmographies and cast lists
	DefaultNameFilterFPR    = 0.01 // False positive rate of the actor name filter
	minNameFilterCapacity   = 1024
	filmographyEvictRatio   = 0.25
	filmographyAccessWeight = 0.7
)

var (
	ErrActorNotFound = errors.New("actor not found")
	ErrMovieNotFound = errors.New("movie not found")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrInvalidRange  = errors.New("invalid range")
	ErrLinkNotFound  = errors.New("actor is not linked to movie")
	ErrClosed        = errors.New("catalog is closed")
)

// Options represents the configuration options for a catalog
type Options struct {
	Directory      string      // Directory holding the CSV files, empty for an empty catalog
	ActorsFile     string      // Actors file name within Directory
	MoviesFile     string      // Movies file name within Directory
	CastFile       string      // Cast links file name within Directory
	IndexOrder     int         // Order of the B+tree indexes
	QueryCacheSize int         // Cached range query results, negative disables the cache
	LogChannel     chan string // Channel for logging
}

// DB is an in-memory catalog of actors and movies.
// Records live in hash tables, cast links in adjacency lists, and the
// name and year lookups are served by B+tree indexes.
type DB struct {
	opts *Options
	lock sync.RWMutex // Writers exclude readers, the indexes are not concurrency safe

	actors      *hashmap.Map[int, *Actor]
	movies      *hashmap.Map[int, *Movie]
	actorMovies *hashmap.Map[int, *linkedlist.List[int]] // Actor id to movie ids
	movieActors *hashmap.Map[int, *linkedlist.List[int]] // Movie id to actor ids
	links       int
	actorIDs    idGenerator // Allocates ids for CreateActor
	movieIDs    idGenerator // Allocates ids for CreateMovie

	byName        *tree.BPlusTree[string, int]  // Actor name to id, duplicates allowed
	byBirthYear   *tree.BPlusTree[YearKey, int] // Actor birth year
	byReleaseYear *tree.BPlusTree[YearKey, int] // Movie release year

	names       *bloomfilter.BloomFilter      // Rules out unknown names before touching byName
	queries     *ristretto.Cache[string, any] // Range query results
	filmography *lru.LRU[recordKey, any]      // MoviesOf / CastOf results
	closed      bool
}

// Open builds a catalog, loading whichever CSV files exist in opts.Directory
func Open(opts *Options) (*DB, error) {
	if opts == nil {
		return nil, errors.New("options cannot be nil")
	}

	if opts.ActorsFile == "" {
		opts.ActorsFile = DefaultActorsFile
	}

	if opts.MoviesFile == "" {
		opts.MoviesFile = DefaultMoviesFile
	}

	if opts.CastFile == "" {
		opts.CastFile = DefaultCastFile
	}

	if opts.IndexOrder == 0 {
		opts.IndexOrder = DefaultIndexOrder
	}

	if opts.QueryCacheSize == 0 {
		opts.QueryCacheSize = DefaultQueryCacheSize
	}

	db := &DB{
		opts:        opts,
		actors:      hashmap.NewInt[*Actor](),
		movies:      hashmap.NewInt[*Movie](),
		actorMovies: hashmap.NewInt[*linkedlist.List[int]](),
		movieActors: hashmap.NewInt[*linkedlist.List[int]](),
		filmography: lru.New[recordKey, any](DefaultFilmographySize, filmographyEvictRatio, filmographyAccessWeight),
	}

	var err error
	if db.byName, err = tree.New[string, int](opts.IndexOrder); err != nil {
		return nil, errors.Wrap(err, "failed to create name index")
	}
	if db.byBirthYear, err = tree.NewWithComparator[YearKey, int](opts.IndexOrder, CompareYearKeys); err != nil {
		return nil, errors.Wrap(err, "failed to create birth year index")
	}
	if db.byReleaseYear, err = tree.NewWithComparator[YearKey, int](opts.IndexOrder, CompareYearKeys); err != nil {
		return nil, errors.Wrap(err, "failed to create release year index")
	}

	if opts.QueryCacheSize > 0 {
		db.queries, err = ristretto.NewCache(&ristretto.Config[string, any]{
			NumCounters:        int64(opts.QueryCacheSize) * 10,
			MaxCost:            int64(opts.QueryCacheSize), // Every result costs 1
			BufferItems:        64,
			IgnoreInternalCost: true,
			Metrics:            true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create query cache")
		}
	}

	if opts.Directory != "" {
		if err := db.load(); err != nil {
			db.closeCaches()
			return nil, errors.Wrapf(err, "failed to load %s", opts.Directory)
		}
	}

	if err := db.rebuildIndexes(); err != nil {
		db.closeCaches()
		return nil, err
	}

	db.log(fmt.Sprintf("Catalog opened with %d actors, %d movies and %d cast links", db.actors.Len(), db.movies.Len(), db.links))

	return db, nil
}

// Close releases the caches and closes the log channel
func (db *DB) Close() error {
	if db == nil {
		return errors.New("catalog is nil")
	}

	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return ErrClosed
	}
	db.closed = true

	db.log("Closing catalog...")
	db.closeCaches()

	if db.opts.LogChannel != nil {
		close(db.opts.LogChannel)
	}

	return nil
}

func (db *DB) closeCaches() {
	if db.queries != nil {
		db.queries.Close()
		db.queries = nil
	}
	db.filmography.Clear()
}

// log sends a message to the log channel without ever blocking the catalog
func (db *DB) log(msg string) {
	if db.opts.LogChannel == nil {
		return
	}

	select {
	case db.opts.LogChannel <- msg:
	default:
	}
}
