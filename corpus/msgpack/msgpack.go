// Package msgpack keeps a corpus as a single msgpack-encoded [][]float64
package msgpack

import (
	"bufio"
	"os"

	"github.com/gasparian/lsh-model-go/corpus"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	corpus.Register(corpus.LoaderFunc(Load), ".msgpack", ".mpk")
}

// Load decodes vectors from path
func Load(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	var vecs [][]float64
	if err := msgpack.NewDecoder(bufio.NewReader(f)).Decode(&vecs); err != nil {
		return nil, errors.Wrapf(err, "decode %q", path)
	}
	return vecs, nil
}

// Save encodes vecs into path
func Save(path string, vecs [][]float64) error {
	blob, err := msgpack.Marshal(vecs)
	if err != nil {
		return errors.Wrap(err, "marshal vectors")
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return errors.Wrapf(err, "write %q", path)
	}
	return nil
}
