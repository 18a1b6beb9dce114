// Package fvecs reads and writes the .fvecs format used by ANN benchmarks:
// every record is a little-endian int32 dimension followed by that many float32 values.
package fvecs

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/gasparian/lsh-model-go/corpus"
	"github.com/pkg/errors"
)

// MaxDimension bounds the record length accepted by Read, so a corrupt header fails fast
const MaxDimension = 1 << 20

func init() {
	corpus.Register(corpus.LoaderFunc(Load), ".fvecs")
}

// Load reads all records from the file
func Load(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()
	vecs, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", path)
	}
	return vecs, nil
}

// Read decodes records until EOF
func Read(r io.Reader) ([][]float64, error) {
	var vecs [][]float64
	var dim int32
	for {
		err := binary.Read(r, binary.LittleEndian, &dim)
		if err == io.EOF {
			return vecs, nil
		}
		if err != nil {
			return nil, err
		}
		if dim < 0 {
			return nil, errors.Errorf("record %d: negative dimension %d", len(vecs), dim)
		}
		if dim > MaxDimension {
			return nil, errors.Errorf("record %d: dimension %d exceeds %d", len(vecs), dim, MaxDimension)
		}
		buf := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, errors.Wrapf(err, "record %d", len(vecs))
		}
		vec := make([]float64, dim)
		for i, v := range buf {
			vec[i] = float64(v)
		}
		vecs = append(vecs, vec)
	}
}

// Write encodes vecs; values are narrowed to float32
func Write(w io.Writer, vecs [][]float64) error {
	for i, vec := range vecs {
		if len(vec) > MaxDimension {
			return errors.Errorf("record %d: dimension %d exceeds %d", i, len(vec), MaxDimension)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(len(vec))); err != nil {
			return err
		}
		buf := make([]float32, len(vec))
		for j, v := range vec {
			buf[j] = float32(v)
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return err
		}
	}
	return nil
}
