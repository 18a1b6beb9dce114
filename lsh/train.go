package lsh

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/blas/blas64"
)

func (m *Model) trainFromPath(path string) error {
	start := time.Now()
	vecs, err := m.loader.Load(path)
	if err != nil {
		return errors.Wrapf(err, "load training corpus %q", path)
	}
	m.logger.WithFields(logrus.Fields{
		"action": "lsh_load_corpus",
		"path":   path,
		"took":   time.Since(start),
	}).Infof("loaded %d sample vectors", len(vecs))
	return m.train(vecs)
}

// planeByPoints fills normal with the vector from the pair midpoint towards query
// and returns the plane offset normal·midpoint.
// The plane passes through the midpoint, query lies on its positive side.
func planeByPoints(query, answer, normal blas64.Vector) float64 {
	center := NewVec(make([]float64, query.N))
	blas64.Axpy(0.5, query, center)
	blas64.Axpy(0.5, answer, center)
	blas64.Copy(query, normal)
	blas64.Axpy(-1.0, center, normal)
	return blas64.Dot(normal, center)
}

// train derives hyperplanes of every table from consecutive slices of the corpus:
// table t uses vectors [t*2B, (t+1)*2B), even offsets are queries, odd ones are answers.
// Vectors past Config.SampleSize() are ignored.
func (m *Model) train(vecs [][]float64) error {
	start := time.Now()
	need := m.config.SampleSize()
	if len(vecs) < need {
		return errors.Wrapf(ErrMalformedTrainingData, "need at least %d sample vectors, got %d", need, len(vecs))
	}
	if len(vecs) > need {
		m.logger.WithField("action", "lsh_train").
			Debugf("corpus holds %d vectors, only the first %d are used", len(vecs), need)
	}

	bits, dims := m.config.BitsPerTable, m.config.Dimensions
	interval := 2 * bits
	tables := make([]hyperplanes, m.config.Tables)
	for t := range tables {
		table := newHyperplanes(bits, dims)
		offset := t * interval
		for j := 0; j < bits; j++ {
			qIdx := offset + 2*j
			query, answer := vecs[qIdx], vecs[qIdx+1]
			if len(query) != dims || len(answer) != dims {
				return errors.Wrapf(ErrMalformedTrainingData,
					"sample vectors %d and %d must have %d dimensions, got %d and %d",
					qIdx, qIdx+1, dims, len(query), len(answer))
			}
			table.thresholds[j] = planeByPoints(NewVec(query), NewVec(answer), table.normal(j))
			if IsZeroVector(table.normal(j)) {
				m.logger.WithFields(logrus.Fields{
					"action": "lsh_train",
					"table":  t,
					"bit":    j,
				}).Warn("query and answer samples are equal, the bit will always be 0")
			}
		}
		tables[t] = table
	}

	m.tables = tables
	m.degenerate = countDegenerate(tables)
	m.id = uuid.NewString()

	took := time.Since(start)
	m.metrics.trained(took, m.degenerate)
	m.logger.WithFields(logrus.Fields{
		"action":          "lsh_train",
		"model_id":        m.id,
		"degenerate_bits": m.degenerate,
		"took":            took,
	}).Info("lsh model trained")
	return nil
}
