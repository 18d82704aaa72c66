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

import "cmp"

// Actor is a performer record
type Actor struct {
	ID   int    `bson:"id"`
	Name string `bson:"name"`
	Year int    `bson:"year"` // Birth year
}

// Movie is a film record
type Movie struct {
	ID    int    `bson:"id"`
	Title string `bson:"title"`
	Plot  string `bson:"plot"`
	Year  int    `bson:"year"` // Release year
}

// YearKey orders records by year, then by id so that every key is unique
type YearKey struct {
	Year int `bson:"year"`
	ID   int `bson:"id"`
}

// CompareYearKeys orders year keys
func CompareYearKeys(a, b YearKey) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// recordKey identifies a record in the filmography cache
type recordKey struct {
	movie bool
	id    int
}
