package lsh

import (
	"github.com/pkg/errors"
)

// MaxBitsPerTable is the widest table hash that fits into uint64
const MaxBitsPerTable = 64

// Config holds the shape of the model; it never changes after the model is created
type Config struct {
	Tables       int `yaml:"tables"`
	BitsPerTable int `yaml:"bits_per_table"`
	Dimensions   int `yaml:"dimensions"`
}

// Validate checks that every field is a positive integer and the hash fits into uint64
func (c Config) Validate() error {
	if c.Tables <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "tables number must be a positive integer, got %d", c.Tables)
	}
	if c.BitsPerTable <= 0 || c.BitsPerTable > MaxBitsPerTable {
		return errors.Wrapf(ErrInvalidConfiguration,
			"bits per table must be in [1, %d], got %d", MaxBitsPerTable, c.BitsPerTable)
	}
	if c.Dimensions <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "dimensions number must be a positive integer, got %d", c.Dimensions)
	}
	return nil
}

// SampleSize returns the number of corpus vectors consumed by training
func (c Config) SampleSize() int {
	return 2 * c.Tables * c.BitsPerTable
}
