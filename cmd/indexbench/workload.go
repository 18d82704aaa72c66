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
	"math/rand"

	"github.com/cockroachdb/errors"
)

// Workload is a mix of operations run against a loaded index
type Workload string

const (
	OLTP      Workload = "OLTP (90/10)"      // 90% point reads, 10% upserts
	OLAP      Workload = "OLAP (10/90)"      // 10% point reads, 90% upserts
	Reporting Workload = "Reporting (Range)" // Ranges of reportSpan keys
	Churn     Workload = "Churn (50/50)"     // Deletes and re-inserts
)

// Workloads lists the mixes in the order they run
var Workloads = []Workload{OLTP, OLAP, Reporting, Churn}

const reportSpan = 100

var benchValue = []byte("v")

// execute runs ops operations of w over keys drawn from [0, keySpace)
func execute(idx index, w Workload, ops, keySpace int, rng *rand.Rand) error {
	for i := 0; i < ops; i++ {
		choice := rng.Intn(100)
		key := int64(rng.Intn(keySpace))

		var err error
		switch w {
		case OLTP:
			if choice < 90 {
				_, _, err = idx.Get(key)
			} else {
				err = idx.Insert(key, benchValue)
			}
		case OLAP:
			if choice < 10 {
				_, _, err = idx.Get(key)
			} else {
				err = idx.Insert(key, benchValue)
			}
		case Reporting:
			err = idx.Range(key, key+reportSpan, func(int64, []byte) bool { return true })
		case Churn:
			if choice < 50 {
				err = idx.Delete(key)
			} else {
				err = idx.Insert(key, benchValue)
			}
		default:
			return errors.Newf("unknown workload %q", w)
		}

		if err != nil {
			return errors.Wrapf(err, "%s op %d", w, i)
		}
	}
	return nil
}
