// Package corpus loads sample vectors used to train the lsh model.
// Concrete formats live in sub-packages and register themselves by file extension.
package corpus

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnknownFormat is returned by Open when no loader is registered for the file extension
var ErrUnknownFormat = errors.New("unknown corpus format")

// Loader reads an ordered sequence of vectors from path
type Loader interface {
	Load(path string) ([][]float64, error)
}

// LoaderFunc adapts a plain function to Loader
type LoaderFunc func(path string) ([][]float64, error)

// Load calls f(path)
func (f LoaderFunc) Load(path string) ([][]float64, error) {
	return f(path)
}

var (
	mx      sync.RWMutex
	loaders = make(map[string]Loader)
)

// Register binds loader to the file extensions (with leading dot, case-insensitive)
func Register(loader Loader, exts ...string) {
	mx.Lock()
	defer mx.Unlock()
	for _, ext := range exts {
		loaders[strings.ToLower(ext)] = loader
	}
}

// Open loads vectors from path with the loader registered for its extension
func Open(path string) ([][]float64, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mx.RLock()
	loader, ok := loaders[ext]
	mx.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q (extension %q)", path, ext)
	}
	return loader.Load(path)
}

// Default is a Loader which dispatches by extension through Open
var Default Loader = LoaderFunc(Open)
