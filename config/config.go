// Package config holds settings of the lshmodel tool.
// Values come from a YAML file and are then overridden by flags and LSH_* env vars.
package config

import (
	"os"
	"time"

	"github.com/gasparian/lsh-model-go/common"
	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Store kinds
const (
	StoreFile   = "file"
	StoreBolt   = "bolt"
	StorePureKv = "purekv"
)

// Store describes where model blobs are kept
type Store struct {
	Kind    string        `yaml:"kind"`
	Path    string        `yaml:"path"`
	Address string        `yaml:"address"`
	Bucket  string        `yaml:"bucket"`
	Timeout time.Duration `yaml:"timeout"`
}

// Log holds logger settings
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds all needed variables to run the tool
type Config struct {
	Model    lsh.Config `yaml:"model"`
	Store    Store      `yaml:"store"`
	Log      Log        `yaml:"log"`
	Compress bool       `yaml:"compress"`
	Workers  int        `yaml:"workers"`
}

// Default returns config with filesystem store, text logs and compressed blobs
func Default() Config {
	return Config{
		Store: Store{
			Kind:    StoreFile,
			Timeout: time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: common.LogFormatText,
		},
		Compress: true,
	}
}

// Load reads YAML file at path on top of Default()
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrapf(err, "read config %q", path)
	}
	if err := yaml.UnmarshalStrict(blob, &config); err != nil {
		return config, errors.Wrapf(err, "parse config %q", path)
	}
	return config, nil
}

// Validate checks model shape and store settings
func (c Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	switch c.Store.Kind {
	case StoreFile:
	case StoreBolt:
		if c.Store.Path == "" {
			return errors.New("bolt store needs a db file path")
		}
	case StorePureKv:
		if c.Store.Address == "" {
			return errors.New("purekv store needs a server address")
		}
	default:
		return errors.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers number must be non-negative, got %d", c.Workers)
	}
	return nil
}
