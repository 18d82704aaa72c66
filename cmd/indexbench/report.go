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
	"encoding/csv"
	"io"
	"runtime"
	"strconv"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Result is one measured phase of one contender
type Result struct {
	Structure   string
	Config      string
	Phase       string
	Ops         int
	NsPerOp     int64
	AllocMB     uint64
	HeapObjects uint64
}

var csvHeader = []string{"Structure", "Config", "Phase", "Ops", "NsPerOp", "AllocMB", "HeapObjects"}

// liveMemory collects garbage first so the figures reflect live data
func liveMemory() (allocMB, objects uint64) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return m.Alloc / 1024 / 1024, m.HeapObjects
}

// writeCSV writes results with a header row
func writeCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		err := cw.Write([]string{
			r.Structure,
			r.Config,
			r.Phase,
			strconv.Itoa(r.Ops),
			strconv.FormatInt(r.NsPerOp, 10),
			strconv.FormatUint(r.AllocMB, 10),
			strconv.FormatUint(r.HeapObjects, 10),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// writePlot renders ns/op per phase as grouped bars, one group per phase and
// one bar per contender
func writePlot(path string, phases []string, results []Result) error {
	p := plot.New()
	p.Title.Text = "Index latency by workload"
	p.Y.Label.Text = "ns/op"

	type series struct {
		label  string
		values plotter.Values
	}

	var order []string
	byLabel := make(map[string]*series)
	for _, r := range results {
		label := r.Structure + " " + r.Config
		s, ok := byLabel[label]
		if !ok {
			s = &series{label: label, values: make(plotter.Values, len(phases))}
			byLabel[label] = s
			order = append(order, label)
		}
		for i, phase := range phases {
			if phase == r.Phase {
				s.values[i] = float64(r.NsPerOp)
			}
		}
	}

	width := vg.Points(8)
	for i, label := range order {
		bars, err := plotter.NewBarChart(byLabel[label].values, width)
		if err != nil {
			return errors.Wrapf(err, "failed to chart %s", label)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(i-len(order)/2)

		p.Add(bars)
		p.Legend.Add(label, bars)
	}

	p.Legend.Top = true
	p.NominalX(phases...)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}
