package lsh

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// getHash projects vec onto every normal of the table and sets bit j
// when the projection is strictly greater than threshold j; proj is a scratch vector
func (h *hyperplanes) getHash(vec, proj blas64.Vector) uint64 {
	blas64.Gemv(blas.NoTrans, 1.0, h.normals, vec, 0.0, proj)
	var hash uint64
	for j, p := range proj.Data {
		if p > h.thresholds[j] {
			hash |= 1 << uint(j)
		}
	}
	return hash
}

// ComputeHashes returns map of table index to the table hash of vec.
// Every hash lies in [0, 2^BitsPerTable), bit 0 is the least significant one.
func (m *Model) ComputeHashes(vec []float64) (map[int]uint64, error) {
	if len(vec) != m.config.Dimensions {
		m.metrics.dimensionMismatch()
		return nil, &DimensionError{Expected: m.config.Dimensions, Actual: len(vec)}
	}
	inpVec := NewVec(vec)
	proj := NewVec(make([]float64, m.config.BitsPerTable))
	hashes := make(map[int]uint64, len(m.tables))
	for t := range m.tables {
		hashes[len(hashes)] = m.tables[t].getHash(inpVec, proj)
	}
	m.metrics.hashed()
	return hashes, nil
}

// ComputeHashesBatch hashes vecs using up to workers goroutines (GOMAXPROCS if workers <= 0).
// Result i holds hashes of vecs[i]; the first failure cancels the rest of the batch.
func (m *Model) ComputeHashesBatch(ctx context.Context, vecs [][]float64, workers int) ([]map[int]uint64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]map[int]uint64, len(vecs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range vecs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hashes, err := m.ComputeHashes(vecs[i])
			if err != nil {
				return errors.Wrapf(err, "vector %d", i)
			}
			out[i] = hashes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
