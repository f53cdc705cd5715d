// Copyright 2017 Dmitry Frank <mail@dmitryfrank.com>
// Licensed under the BSD, see LICENCE file for details.

package config // import "dmitryfrank.com/highlighter/server/config"

import (
	"io/ioutil"
	"time"

	"github.com/juju/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	DefListen       = ":4000"
	DefMaxBodyBytes = 4 << 20
	DefSelectorTTL  = 10 * time.Minute
)

type Marker struct {
	Tag        string            `yaml:"tag"`
	Class      string            `yaml:"class"`
	Attributes map[string]string `yaml:"attributes"`
}

type Config struct {
	Listen       string `yaml:"listen"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	// SelectorCacheTTL is parsed with time.ParseDuration, e.g. "5m".
	SelectorCacheTTL string `yaml:"selector_cache_ttl"`

	// Marker holds defaults for requests which don't specify their own.
	Marker Marker `yaml:"marker"`

	selectorTTL time.Duration
}

func Default() *Config {
	return &Config{
		Listen:       DefListen,
		MaxBodyBytes: DefMaxBodyBytes,
		selectorTTL:  DefSelectorTTL,
	}
}

// ReadFile reads the YAML config file. Fields missing from the file keep
// their defaults.
func ReadFile(path string) (*Config, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}

	cfg, err := Parse(contents)
	if err != nil {
		return nil, errors.Annotatef(err, "%s", path)
	}

	return cfg, nil
}

func Parse(contents []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, errors.Annotatef(err, "unmarshalling config")
	}

	if cfg.Listen == "" {
		cfg.Listen = DefListen
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, errors.Errorf("max_body_bytes should be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.SelectorCacheTTL != "" {
		ttl, err := time.ParseDuration(cfg.SelectorCacheTTL)
		if err != nil {
			return nil, errors.Annotatef(err, "parsing selector_cache_ttl")
		}
		if ttl <= 0 {
			return nil, errors.Errorf("selector_cache_ttl should be positive, got %s", ttl)
		}
		cfg.selectorTTL = ttl
	}

	return cfg, nil
}

func (c *Config) SelectorTTL() time.Duration {
	return c.selectorTTL
}
