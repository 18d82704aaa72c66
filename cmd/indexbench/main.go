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
	"flag"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Config is everything a benchmark run needs
type Config struct {
	Scale   int   // Keys loaded before the workloads run
	Orders  []int // B+tree orders and google/btree degrees to sweep
	Seed    int64
	CSVPath string
	PNGPath string // Empty skips the chart
}

func main() {
	scale := flag.Int("n", 100000, "keys loaded into each index")
	orders := flag.String("orders", "8,32,128", "comma separated B+tree orders")
	seed := flag.Int64("seed", 1, "random seed")
	out := flag.String("out", "indexbench.csv", "CSV results path")
	png := flag.String("plot", "indexbench.png", "chart path, empty to skip")
	flag.Parse()

	cfg := &Config{Scale: *scale, Seed: *seed, CSVPath: *out, PNGPath: *png}
	for _, field := range strings.Split(*orders, ",") {
		order, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			logrus.Fatalf("bad order %q", field)
		}
		cfg.Orders = append(cfg.Orders, order)
	}

	if err := run(cfg, logrus.StandardLogger()); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

// contenders lists every structure to measure
func contenders(cfg *Config) []contender {
	var cs []contender
	for _, order := range cfg.Orders {
		cs = append(cs,
			contender{name: "BPlusTree", config: strconv.Itoa(order), open: func() (index, error) { return newBPlusIndex(order) }},
			contender{name: "google/btree", config: strconv.Itoa(order), open: func() (index, error) { return newBTreeIndex(max(order/2, 2)) }},
		)
	}

	cs = append(cs,
		contender{name: "SkipList", config: "p=0.25", open: func() (index, error) { return newSkipListIndex(cfg.Seed) }},
		contender{name: "Pebble", config: "mem", open: func() (index, error) { return newPebbleIndex(4 << 20) }},
	)
	return cs
}

// run measures every contender and writes the reports
func run(cfg *Config, logger *logrus.Logger) error {
	if cfg.Scale <= 0 {
		return errors.Newf("scale must be positive, got %d", cfg.Scale)
	}

	var results []Result
	for _, c := range contenders(cfg) {
		logger.WithFields(logrus.Fields{"structure": c.name, "config": c.config}).Info("running suite")

		rs, err := runSuite(c, cfg)
		if err != nil {
			return errors.Wrapf(err, "%s (%s)", c.name, c.config)
		}
		results = append(results, rs...)
	}

	f, err := os.Create(cfg.CSVPath)
	if err != nil {
		return errors.Wrap(err, "failed to create results file")
	}
	if err := writeCSV(f, results); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to write results")
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.WithField("path", cfg.CSVPath).Info("results written")

	if cfg.PNGPath != "" {
		phases := []string{"Load"}
		for _, w := range Workloads {
			phases = append(phases, string(w))
		}
		if err := writePlot(cfg.PNGPath, phases, results); err != nil {
			return errors.Wrap(err, "failed to write chart")
		}
		logger.WithField("path", cfg.PNGPath).Info("chart written")
	}

	return nil
}

// runSuite loads keys in shuffled order, then runs each workload on the loaded index
func runSuite(c contender, cfg *Config) ([]Result, error) {
	idx, err := c.open()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	var results []Result

	keys := rng.Perm(cfg.Scale)
	start := time.Now()
	for _, k := range keys {
		if err := idx.Insert(int64(k), benchValue); err != nil {
			_ = idx.Close()
			return nil, errors.Wrap(err, "load")
		}
	}
	results = append(results, measured(c, "Load", cfg.Scale, time.Since(start)))

	for _, w := range Workloads {
		ops := cfg.Scale / 2
		if w == Reporting {
			ops = max(cfg.Scale/1000, 1)
		}

		start := time.Now()
		if err := execute(idx, w, ops, cfg.Scale, rng); err != nil {
			_ = idx.Close()
			return nil, err
		}
		results = append(results, measured(c, string(w), ops, time.Since(start)))
	}

	return results, idx.Close()
}

func measured(c contender, phase string, ops int, elapsed time.Duration) Result {
	alloc, objects := liveMemory()
	return Result{
		Structure:   c.name,
		Config:      c.config,
		Phase:       phase,
		Ops:         ops,
		NsPerOp:     elapsed.Nanoseconds() / int64(max(ops, 1)),
		AllocMB:     alloc,
		HeapObjects: objects,
	}
}
