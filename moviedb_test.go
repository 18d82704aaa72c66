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
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testActors = `id,name,year
1,Keanu Reeves,1964
2,Carrie-Anne Moss,1967
3,Laurence Fishburne,1961
4,Keanu Reeves,1990
5,"Smith, Will",1968
`
	testMovies = `id,title,plot,year
10,The Matrix,"A hacker learns, too late, the truth",1999
11,John Wick,Retired hitman,2014
12,Speed,Bus bomb,1994
13,Men in Black,Aliens,1997
`
	testCast = `actor_id,movie_id
1,10
2,10
3,10
1,11
1,12
5,13
1,10
99,10
`
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dir := writeFiles(t, map[string]string{
		DefaultActorsFile: testActors,
		DefaultMoviesFile: testMovies,
		DefaultCastFile:   testCast,
	})

	db, err := Open(&Options{Directory: dir, IndexOrder: 4, LogChannel: make(chan string, 100)})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func actorIDs(actors []Actor) []int {
	ids := make([]int, len(actors))
	for i, a := range actors {
		ids[i] = a.ID
	}
	return ids
}

func movieIDs(movies []Movie) []int {
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}

func TestOpenLoadsCSV(t *testing.T) {
	db := setupTestDB(t)

	s, err := db.Stats()
	require.NoError(t, err)
	require.Equal(t, 5, s.Actors)
	require.Equal(t, 4, s.Movies)
	require.Equal(t, 6, s.Links, "repeated and dangling cast rows are ignored")
	require.Equal(t, 5, s.NameIndex.Entries)
	require.Equal(t, 4, s.ReleaseIndex.Entries)

	m, err := db.Movie(10)
	require.NoError(t, err)
	require.Equal(t, "A hacker learns, too late, the truth", m.Plot)

	a, err := db.Actor(5)
	require.NoError(t, err)
	require.Equal(t, Actor{ID: 5, Name: "Smith, Will", Year: 1968}, a)

	_, err = db.Actor(42)
	require.ErrorIs(t, err, ErrActorNotFound)
	_, err = db.Movie(42)
	require.ErrorIs(t, err, ErrMovieNotFound)

	require.NoError(t, db.Verify())
}

func TestOpenEmptyDirectory(t *testing.T) {
	db, err := Open(&Options{Directory: t.TempDir()})
	require.NoError(t, err)
	defer db.Close()

	s, err := db.Stats()
	require.NoError(t, err)
	require.Zero(t, s.Actors)
	require.Zero(t, s.Movies)
	require.Equal(t, 1, s.NameIndex.Height)

	actors, err := db.ActorsBornBetween(1900, 2000)
	require.NoError(t, err)
	require.Empty(t, actors)
}

func TestOpenMalformedCSV(t *testing.T) {
	t.Run("bad integer", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			DefaultActorsFile: "id,name,year\n1,A,1950\n2,B,nineteen\n",
		})
		_, err := Open(&Options{Directory: dir})
		require.ErrorContains(t, err, "actors.csv:3")
	})

	t.Run("wrong field count", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			DefaultMoviesFile: "id,title,plot,year\n1,Title,1999\n",
		})
		_, err := Open(&Options{Directory: dir})
		require.Error(t, err)
	})

	t.Run("duplicate id", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			DefaultActorsFile: "id,name,year\n1,A,1950\n1,B,1951\n",
		})
		_, err := Open(&Options{Directory: dir})
		require.ErrorIs(t, err, ErrDuplicateID)
	})
}

func TestActorsNamed(t *testing.T) {
	db := setupTestDB(t)

	actors, err := db.ActorsNamed("Keanu Reeves")
	require.NoError(t, err)
	require.Equal(t, []int{1, 4}, actorIDs(actors))

	actors, err = db.ActorsNamed("Smith, Will")
	require.NoError(t, err)
	require.Equal(t, []int{5}, actorIDs(actors))

	actors, err = db.ActorsNamed("Keanu")
	require.NoError(t, err)
	require.Empty(t, actors)
}

func TestActorsWithPrefix(t *testing.T) {
	db := setupTestDB(t)

	actors, err := db.ActorsWithPrefix("Keanu")
	require.NoError(t, err)
	require.Equal(t, []int{1, 4}, actorIDs(actors))

	actors, err = db.ActorsWithPrefix("L")
	require.NoError(t, err)
	require.Equal(t, []int{3}, actorIDs(actors))

	actors, err = db.ActorsWithPrefix("Z")
	require.NoError(t, err)
	require.Empty(t, actors)

	actors, err = db.ActorsWithPrefix("")
	require.NoError(t, err)
	require.Len(t, actors, 5)
}

func TestYearRanges(t *testing.T) {
	db := setupTestDB(t)

	// Twice, the second answer comes from the query cache
	for i := 0; i < 2; i++ {
		actors, err := db.ActorsBornBetween(1960, 1965)
		require.NoError(t, err)
		require.Equal(t, []int{3, 1}, actorIDs(actors))
	}

	movies, err := db.MoviesReleasedBetween(1994, 1999)
	require.NoError(t, err)
	require.Equal(t, []int{12, 13, 10}, movieIDs(movies))

	movies, err = db.MoviesReleasedBetween(2000, 2000)
	require.NoError(t, err)
	require.Empty(t, movies)

	_, err = db.ActorsBornBetween(1970, 1960)
	require.ErrorIs(t, err, ErrInvalidRange)
	_, err = db.MoviesReleasedBetween(2001, 2000)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestResultsAreCopies(t *testing.T) {
	db := setupTestDB(t)

	actors, err := db.ActorsBornBetween(1960, 1965)
	require.NoError(t, err)
	actors[0].Name = "changed"

	actors, err = db.ActorsBornBetween(1960, 1965)
	require.NoError(t, err)
	require.Equal(t, "Laurence Fishburne", actors[0].Name)
}

func TestFilmography(t *testing.T) {
	db := setupTestDB(t)

	movies, err := db.MoviesOf(1)
	require.NoError(t, err)
	require.Equal(t, []int{11, 12, 10}, movieIDs(movies), "ordered by title")

	cast, err := db.CastOf(10)
	require.NoError(t, err)
	require.Equal(t, []int{2, 1, 3}, actorIDs(cast), "ordered by name")

	movies, err = db.MoviesOf(4)
	require.NoError(t, err)
	require.Empty(t, movies)

	_, err = db.MoviesOf(99)
	require.ErrorIs(t, err, ErrActorNotFound)
	_, err = db.CastOf(99)
	require.ErrorIs(t, err, ErrMovieNotFound)
}

func TestAddRecords(t *testing.T) {
	db := setupTestDB(t)

	// Warm the caches so the additions must invalidate them
	_, err := db.ActorsBornBetween(1960, 1965)
	require.NoError(t, err)

	require.NoError(t, db.AddActor(Actor{ID: 6, Name: "Hugo Weaving", Year: 1960}))
	require.ErrorIs(t, db.AddActor(Actor{ID: 6, Name: "Someone", Year: 1970}), ErrDuplicateID)

	actors, err := db.ActorsBornBetween(1960, 1965)
	require.NoError(t, err)
	require.Equal(t, []int{6, 3, 1}, actorIDs(actors))

	actors, err = db.ActorsNamed("Hugo Weaving")
	require.NoError(t, err)
	require.Equal(t, []int{6}, actorIDs(actors))

	require.NoError(t, db.AddMovie(Movie{ID: 14, Title: "The Matrix Reloaded", Year: 2003}))
	require.ErrorIs(t, db.AddMovie(Movie{ID: 14}), ErrDuplicateID)

	movies, err := db.MoviesReleasedBetween(2000, 2010)
	require.NoError(t, err)
	require.Equal(t, []int{14}, movieIDs(movies))

	require.NoError(t, db.Verify())
}

func TestCreateRecords(t *testing.T) {
	db := setupTestDB(t)

	a, err := db.CreateActor("Hugo Weaving", 1960)
	require.NoError(t, err)
	require.Equal(t, 6, a.ID, "allocated above the loaded ids")

	require.NoError(t, db.AddActor(Actor{ID: 100, Name: "Gloria Foster", Year: 1933}))
	a, err = db.CreateActor("Joe Pantoliano", 1951)
	require.NoError(t, err)
	require.Equal(t, 101, a.ID)

	m, err := db.CreateMovie("The Matrix Revolutions", "The end", 2003)
	require.NoError(t, err)
	require.Equal(t, 14, m.ID)

	got, err := db.Movie(14)
	require.NoError(t, err)
	require.Equal(t, m, got)

	actors, err := db.ActorsNamed("Joe Pantoliano")
	require.NoError(t, err)
	require.Equal(t, []int{101}, actorIDs(actors))

	require.NoError(t, db.Verify())
}

func TestUpdateRecords(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.CastOf(10)
	require.NoError(t, err)

	require.NoError(t, db.UpdateActor(Actor{ID: 1, Name: "K. Reeves", Year: 1965}))

	actors, err := db.ActorsNamed("Keanu Reeves")
	require.NoError(t, err)
	require.Equal(t, []int{4}, actorIDs(actors))

	actors, err = db.ActorsNamed("K. Reeves")
	require.NoError(t, err)
	require.Equal(t, []int{1}, actorIDs(actors))

	actors, err = db.ActorsBornBetween(1965, 1965)
	require.NoError(t, err)
	require.Equal(t, []int{1}, actorIDs(actors))

	cast, err := db.CastOf(10)
	require.NoError(t, err)
	require.Equal(t, []int{2, 1, 3}, actorIDs(cast))
	require.Equal(t, "K. Reeves", cast[1].Name)

	require.NoError(t, db.UpdateMovie(Movie{ID: 12, Title: "Speed", Plot: "Bus", Year: 2020}))
	movies, err := db.MoviesReleasedBetween(2015, 2025)
	require.NoError(t, err)
	require.Equal(t, []int{12}, movieIDs(movies))

	require.ErrorIs(t, db.UpdateActor(Actor{ID: 99}), ErrActorNotFound)
	require.ErrorIs(t, db.UpdateMovie(Movie{ID: 99}), ErrMovieNotFound)

	require.NoError(t, db.Verify())
}

func TestRemoveRecords(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.RemoveActor(1))
	require.ErrorIs(t, db.RemoveActor(1), ErrActorNotFound)

	_, err := db.MoviesOf(1)
	require.ErrorIs(t, err, ErrActorNotFound)

	cast, err := db.CastOf(10)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, actorIDs(cast))

	actors, err := db.ActorsNamed("Keanu Reeves")
	require.NoError(t, err)
	require.Equal(t, []int{4}, actorIDs(actors))

	require.NoError(t, db.RemoveMovie(10))
	require.ErrorIs(t, db.RemoveMovie(10), ErrMovieNotFound)

	movies, err := db.MoviesOf(2)
	require.NoError(t, err)
	require.Empty(t, movies)

	s, err := db.Stats()
	require.NoError(t, err)
	require.Equal(t, 4, s.Actors)
	require.Equal(t, 3, s.Movies)
	require.Equal(t, 1, s.Links)

	require.NoError(t, db.Verify())
}

func TestLinkUnlink(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Link(4, 11))
	require.NoError(t, db.Link(4, 11))

	movies, err := db.MoviesOf(4)
	require.NoError(t, err)
	require.Equal(t, []int{11}, movieIDs(movies))

	s, err := db.Stats()
	require.NoError(t, err)
	require.Equal(t, 7, s.Links)

	require.ErrorIs(t, db.Link(99, 11), ErrActorNotFound)
	require.ErrorIs(t, db.Link(4, 99), ErrMovieNotFound)

	require.NoError(t, db.Unlink(4, 11))
	require.ErrorIs(t, db.Unlink(4, 11), ErrLinkNotFound)

	cast, err := db.CastOf(11)
	require.NoError(t, err)
	require.Equal(t, []int{1}, actorIDs(cast))

	require.NoError(t, db.Verify())
}

func TestManyMutationsKeepIndexesConsistent(t *testing.T) {
	db, err := Open(&Options{IndexOrder: 3, QueryCacheSize: -1})
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 500; i++ {
		require.NoError(t, db.AddActor(Actor{ID: i, Name: fmt.Sprintf("actor%03d", i%50), Year: 1900 + i%100}))
	}
	require.NoError(t, db.Verify())

	for i := 0; i < 500; i += 2 {
		require.NoError(t, db.RemoveActor(i))
	}
	require.NoError(t, db.Verify())

	actors, err := db.ActorsNamed("actor001")
	require.NoError(t, err)
	require.Len(t, actors, 10)

	actors, err = db.ActorsBornBetween(1900, 1999)
	require.NoError(t, err)
	require.Len(t, actors, 250)
	for i := 1; i < len(actors); i++ {
		require.LessOrEqual(t, actors[i-1].Year, actors[i].Year)
	}
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	db := setupTestDB(t)

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, err := db.ActorsBornBetween(1900, 2100)
				assert.NoError(t, err)
				_, err = db.ActorsWithPrefix("A")
				assert.NoError(t, err)
				_, err = db.CastOf(10)
				assert.NoError(t, err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 100; i < 300; i++ {
			assert.NoError(t, db.AddActor(Actor{ID: i, Name: fmt.Sprintf("Actor %d", i), Year: 1950}))
			assert.NoError(t, db.Link(i, 10))
		}
	}()

	wg.Wait()

	cast, err := db.CastOf(10)
	require.NoError(t, err)
	require.Len(t, cast, 203)
	require.NoError(t, db.Verify())
}

func TestClose(t *testing.T) {
	logs := make(chan string, 100)
	db, err := Open(&Options{LogChannel: logs})
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.ErrorIs(t, db.Close(), ErrClosed)

	_, err = db.Actor(1)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, db.AddActor(Actor{ID: 1}), ErrClosed)

	var messages []string
	for msg := range logs {
		messages = append(messages, msg)
	}
	require.NotEmpty(t, messages)
}
