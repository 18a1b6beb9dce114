package store

import (
	"github.com/pkg/errors"
)

// ErrNotFound is returned when there is no blob under the requested key
var ErrNotFound = errors.New("blob not found")

// Store keeps persisted model blobs addressed by a string key
type Store interface {
	Put(key string, blob []byte) error
	Get(key string) ([]byte, error)
	Close() error
}
