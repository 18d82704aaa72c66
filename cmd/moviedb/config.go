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
	moviedb "github.com/GalenLovesCheese/DSA-Assignment"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config is the console configuration, read from an INI file:
//
//	[data]
//	dir    = data
//	actors = actors.csv
//	movies = movies.csv
//	cast   = cast.csv
//
//	[index]
//	order = 64
//
//	[cache]
//	size = 1024
//
//	[log]
//	level = warn
type Config struct {
	DataDir    string
	ActorsFile string
	MoviesFile string
	CastFile   string
	IndexOrder int
	CacheSize  int
	LogLevel   logrus.Level
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		DataDir:    "data",
		ActorsFile: moviedb.DefaultActorsFile,
		MoviesFile: moviedb.DefaultMoviesFile,
		CastFile:   moviedb.DefaultCastFile,
		IndexOrder: moviedb.DefaultIndexOrder,
		CacheSize:  moviedb.DefaultQueryCacheSize,
		LogLevel:   logrus.WarnLevel,
	}
}

// LoadConfig reads path over the defaults.  An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config %s", path)
	}

	data := f.Section("data")
	cfg.DataDir = data.Key("dir").MustString(cfg.DataDir)
	cfg.ActorsFile = data.Key("actors").MustString(cfg.ActorsFile)
	cfg.MoviesFile = data.Key("movies").MustString(cfg.MoviesFile)
	cfg.CastFile = data.Key("cast").MustString(cfg.CastFile)

	cfg.IndexOrder = f.Section("index").Key("order").MustInt(cfg.IndexOrder)
	cfg.CacheSize = f.Section("cache").Key("size").MustInt(cfg.CacheSize)

	if level := f.Section("log").Key("level").String(); level != "" {
		cfg.LogLevel, err = logrus.ParseLevel(level)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: [log] level", path)
		}
	}

	return cfg, nil
}

// Options converts the configuration into catalog options
func (cfg *Config) Options(logs chan string) *moviedb.Options {
	return &moviedb.Options{
		Directory:      cfg.DataDir,
		ActorsFile:     cfg.ActorsFile,
		MoviesFile:     cfg.MoviesFile,
		CastFile:       cfg.CastFile,
		IndexOrder:     cfg.IndexOrder,
		QueryCacheSize: cfg.CacheSize,
		LogChannel:     logs,
	}
}
