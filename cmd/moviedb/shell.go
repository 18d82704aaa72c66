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
	"fmt"
	"io"
	"strconv"
	"strings"

	moviedb "github.com/GalenLovesCheese/DSA-Assignment"
	"github.com/GalenLovesCheese/DSA-Assignment/tree"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.mongodb.org/mongo-driver/bson"
)

const usage = `Commands:
  help                          show this message
  actor <id>                    show an actor
  movie <id>                    show a movie
  name <name>                   actors with exactly this name
  prefix <prefix>               actors whose name starts with prefix
  born <from> <to>              actors born between two years
  released <from> <to>          movies released between two years
  movies-of <actor id>          movies an actor appears in
  cast-of <movie id>            actors appearing in a movie
  add-actor <id> <year> <name>  add an actor
  add-movie <id> <year> <title> add a movie
  new-actor <year> <name>       add an actor under the next free id
  new-movie <year> <title>      add a movie under the next free id
  update-actor <id> <year> <name>
  update-movie <id> <year> <title>
  link <actor id> <movie id>    record a cast link
  unlink <actor id> <movie id>  remove a cast link
  rm-actor <id>                 remove an actor and its links
  rm-movie <id>                 remove a movie and its links
  stats                         catalog and index statistics
  dump <names|born|released>    print an index layout
  quit                          exit
`

var errUsage = errors.New("wrong arguments, try help")

// shell executes console commands against a catalog
type shell struct {
	db  *moviedb.DB
	out io.Writer
}

// exec runs one command line.  quit is true once the user asked to leave.
func (s *shell) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help", "?":
		fmt.Fprint(s.out, usage)
	case "quit", "exit":
		return true, nil
	case "actor":
		err = s.actor(args)
	case "movie":
		err = s.movie(args)
	case "name":
		err = s.named(args)
	case "prefix":
		err = s.prefix(args)
	case "born":
		err = s.born(args)
	case "released":
		err = s.released(args)
	case "movies-of":
		err = s.moviesOf(args)
	case "cast-of":
		err = s.castOf(args)
	case "add-actor", "update-actor":
		err = s.putActor(cmd == "update-actor", args)
	case "add-movie", "update-movie":
		err = s.putMovie(cmd == "update-movie", args)
	case "new-actor", "new-movie":
		err = s.create(cmd == "new-movie", args)
	case "link", "unlink":
		err = s.link(cmd == "unlink", args)
	case "rm-actor", "rm-movie":
		err = s.remove(cmd == "rm-movie", args)
	case "stats":
		err = s.stats()
	case "dump":
		err = s.dump(args)
	default:
		err = errors.Newf("unknown command %q, try help", cmd)
	}

	return false, err
}

// ints parses exactly n leading integer arguments
func ints(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, errUsage
	}

	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, errors.Wrapf(errUsage, "%q is not a number", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func (s *shell) printActors(actors []moviedb.Actor) {
	for _, a := range actors {
		fmt.Fprintf(s.out, "%6d  %-30s %d\n", a.ID, a.Name, a.Year)
	}
	fmt.Fprintf(s.out, "(%s actors)\n", humanize.Comma(int64(len(actors))))
}

func (s *shell) printMovies(movies []moviedb.Movie) {
	for _, m := range movies {
		fmt.Fprintf(s.out, "%6d  %-30s %d\n", m.ID, m.Title, m.Year)
	}
	fmt.Fprintf(s.out, "(%s movies)\n", humanize.Comma(int64(len(movies))))
}

func (s *shell) actor(args []string) error {
	n, err := ints(args, 1)
	if err != nil {
		return err
	}

	a, err := s.db.Actor(n[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%d  %s (born %d)\n", a.ID, a.Name, a.Year)
	return nil
}

func (s *shell) movie(args []string) error {
	n, err := ints(args, 1)
	if err != nil {
		return err
	}

	m, err := s.db.Movie(n[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%d  %s (%d)\n", m.ID, m.Title, m.Year)
	if m.Plot != "" {
		fmt.Fprintf(s.out, "    %s\n", m.Plot)
	}
	return nil
}

func (s *shell) named(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	actors, err := s.db.ActorsNamed(strings.Join(args, " "))
	if err != nil {
		return err
	}

	s.printActors(actors)
	return nil
}

func (s *shell) prefix(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	actors, err := s.db.ActorsWithPrefix(strings.Join(args, " "))
	if err != nil {
		return err
	}

	s.printActors(actors)
	return nil
}

func (s *shell) born(args []string) error {
	n, err := ints(args, 2)
	if err != nil {
		return err
	}

	actors, err := s.db.ActorsBornBetween(n[0], n[1])
	if err != nil {
		return err
	}

	s.printActors(actors)
	return nil
}

func (s *shell) released(args []string) error {
	n, err := ints(args, 2)
	if err != nil {
		return err
	}

	movies, err := s.db.MoviesReleasedBetween(n[0], n[1])
	if err != nil {
		return err
	}

	s.printMovies(movies)
	return nil
}

func (s *shell) moviesOf(args []string) error {
	n, err := ints(args, 1)
	if err != nil {
		return err
	}

	movies, err := s.db.MoviesOf(n[0])
	if err != nil {
		return err
	}

	s.printMovies(movies)
	return nil
}

func (s *shell) castOf(args []string) error {
	n, err := ints(args, 1)
	if err != nil {
		return err
	}

	actors, err := s.db.CastOf(n[0])
	if err != nil {
		return err
	}

	s.printActors(actors)
	return nil
}

func (s *shell) putActor(update bool, args []string) error {
	n, err := ints(args, 2)
	if err != nil || len(args) < 3 {
		return errUsage
	}

	a := moviedb.Actor{ID: n[0], Year: n[1], Name: strings.Join(args[2:], " ")}
	if update {
		err = s.db.UpdateActor(a)
	} else {
		err = s.db.AddActor(a)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "OK")
	return nil
}

func (s *shell) putMovie(update bool, args []string) error {
	n, err := ints(args, 2)
	if err != nil || len(args) < 3 {
		return errUsage
	}

	m := moviedb.Movie{ID: n[0], Year: n[1], Title: strings.Join(args[2:], " ")}
	if update {
		// Keep the plot, the console has no way to enter one
		if old, err := s.db.Movie(m.ID); err == nil {
			m.Plot = old.Plot
		}
		err = s.db.UpdateMovie(m)
	} else {
		err = s.db.AddMovie(m)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "OK")
	return nil
}

func (s *shell) create(movie bool, args []string) error {
	n, err := ints(args, 1)
	if err != nil || len(args) < 2 {
		return errUsage
	}

	name := strings.Join(args[1:], " ")
	if movie {
		m, err := s.db.CreateMovie(name, "", n[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "OK, movie %d\n", m.ID)
		return nil
	}

	a, err := s.db.CreateActor(name, n[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "OK, actor %d\n", a.ID)
	return nil
}

func (s *shell) link(unlink bool, args []string) error {
	n, err := ints(args, 2)
	if err != nil {
		return err
	}

	if unlink {
		err = s.db.Unlink(n[0], n[1])
	} else {
		err = s.db.Link(n[0], n[1])
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "OK")
	return nil
}

func (s *shell) remove(movie bool, args []string) error {
	n, err := ints(args, 1)
	if err != nil {
		return err
	}

	if movie {
		err = s.db.RemoveMovie(n[0])
	} else {
		err = s.db.RemoveActor(n[0])
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "OK")
	return nil
}

func (s *shell) stats() error {
	st, err := s.db.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "actors:  %s\n", humanize.Comma(int64(st.Actors)))
	fmt.Fprintf(s.out, "movies:  %s\n", humanize.Comma(int64(st.Movies)))
	fmt.Fprintf(s.out, "links:   %s\n", humanize.Comma(int64(st.Links)))

	s.printIndex("names", st.NameIndex)
	s.printIndex("born", st.BirthIndex)
	s.printIndex("released", st.ReleaseIndex)

	fmt.Fprintf(s.out, "name filter false positive rate: %s%%\n", humanize.FtoaWithDigits(st.NameFilterFPP*100, 4))
	fmt.Fprintf(s.out, "cached queries: %s\n", humanize.Comma(int64(st.CachedQueries)))
	return nil
}

func (s *shell) printIndex(name string, st tree.Stats) {
	fmt.Fprintf(s.out, "%-9s height %d, %s entries, %s leaves, %s internal, %.0f%% leaf fill\n",
		name, st.Height, humanize.Comma(int64(st.Entries)), humanize.Comma(int64(st.LeafNodes)),
		humanize.Comma(int64(st.InternalNodes)), st.AvgLeafFill*100)
}

// dump prints an index layout as relaxed extended JSON
func (s *shell) dump(args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	var (
		layout any
		err    error
	)
	switch args[0] {
	case "names":
		layout, err = s.db.NameLayout()
	case "born":
		layout, err = s.db.BirthYearLayout()
	case "released":
		layout, err = s.db.ReleaseYearLayout()
	default:
		return errors.Wrapf(errUsage, "unknown index %q", args[0])
	}
	if err != nil {
		return err
	}

	doc, err := bson.MarshalExtJSONIndent(bson.M{"index": args[0], "levels": layout}, false, false, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode layout")
	}

	fmt.Fprintln(s.out, string(doc))
	return nil
}
