package lsh_test

import (
	"math/rand"
	"testing"

	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/stretchr/testify/require"
)

// exampleConfig and exampleCorpus: table 0 is built from ([10], [0]), table 1 from ([20], [0])
var exampleConfig = lsh.Config{Tables: 2, BitsPerTable: 1, Dimensions: 1}

func exampleCorpus() [][]float64 {
	return [][]float64{{10}, {0}, {20}, {0}}
}

func randomCorpus(rng *rand.Rand, config lsh.Config) [][]float64 {
	vecs := make([][]float64, config.SampleSize())
	for i := range vecs {
		vecs[i] = randomVec(rng, config.Dimensions)
	}
	return vecs
}

func randomVec(rng *rand.Rand, dims int) []float64 {
	vec := make([]float64, dims)
	for i := range vec {
		vec[i] = -1.0 + rng.Float64()*2
	}
	return vec
}

func trainModel(t *testing.T, config lsh.Config, vecs [][]float64, opts ...lsh.Option) *lsh.Model {
	t.Helper()
	model, err := lsh.New(config, lsh.TrainFromVectors(vecs), opts...)
	require.NoError(t, err)
	return model
}
