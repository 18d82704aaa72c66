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
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	moviedb "github.com/GalenLovesCheese/DSA-Assignment"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path of an INI configuration file")
	dataDir := flag.String("data", "", "directory holding actors.csv, movies.csv and cast.csv (overrides the config)")
	flag.Parse()

	if err := run(*configPath, *dataDir, os.Stdin, os.Stdout); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

// run opens the catalog and serves commands from in until quit or EOF
func run(configPath, dataDir string, in *os.File, out io.Writer) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	logs := make(chan string, 256)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for msg := range logs {
			logger.Info(msg)
		}
	}()

	db, err := moviedb.Open(cfg.Options(logs))
	if err != nil {
		close(logs)
		<-drained
		return err
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("failed to close catalog")
		}
		<-drained
	}()

	return serve(&shell{db: db, out: out}, in, out, isTerminal(in.Fd()), logger)
}

// serve reads commands line by line, prompting when interactive
func serve(s *shell, in io.Reader, out io.Writer, interactive bool, logger *logrus.Logger) error {
	if interactive {
		fmt.Fprintln(out, "moviedb console, type help for commands")
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		quit, err := s.exec(scanner.Text())
		if err != nil {
			logger.WithError(err).Debug("command failed")
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}
