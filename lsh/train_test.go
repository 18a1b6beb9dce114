package lsh_test

import (
	"math/rand"
	"testing"

	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainExample(t *testing.T) {
	t.Parallel()
	model := trainModel(t, exampleConfig, exampleCorpus())

	assert.Equal(t, [][][]float64{{{5}}, {{10}}}, model.Normals())
	assert.Equal(t, [][]float64{{25}, {100}}, model.Thresholds())
	assert.Equal(t, 0, model.DegenerateBits())

	hashes, err := model.ComputeHashes([]float64{100})
	require.NoError(t, err)
	assert.Equal(t, map[int]uint64{0: 1, 1: 1}, hashes)
}

func TestTrainPairsLayout(t *testing.T) {
	t.Parallel()
	config := lsh.Config{Tables: 1, BitsPerTable: 2, Dimensions: 2}
	// queries at even offsets, answers at odd offsets
	vecs := [][]float64{
		{2, 0}, {0, 0},
		{0, 4}, {0, 2},
	}
	model := trainModel(t, config, vecs)

	assert.Equal(t, [][][]float64{{{1, 0}, {0, 1}}}, model.Normals())
	// midpoints are [1 0] and [0 3]
	assert.Equal(t, [][]float64{{1, 3}}, model.Thresholds())
}

func TestTrainMalformed(t *testing.T) {
	t.Parallel()
	t.Run("Too short", func(t *testing.T) {
		_, err := lsh.New(exampleConfig, lsh.TrainFromVectors(exampleCorpus()[:3]))
		assert.ErrorIs(t, err, lsh.ErrMalformedTrainingData)
	})
	t.Run("Empty", func(t *testing.T) {
		_, err := lsh.New(exampleConfig, lsh.TrainFromVectors([][]float64{}))
		assert.ErrorIs(t, err, lsh.ErrMalformedTrainingData)
	})
	t.Run("Wrong dimensions", func(t *testing.T) {
		vecs := exampleCorpus()
		vecs[3] = []float64{0, 1}
		_, err := lsh.New(exampleConfig, lsh.TrainFromVectors(vecs))
		assert.ErrorIs(t, err, lsh.ErrMalformedTrainingData)
	})
}

func TestTrainLongerCorpus(t *testing.T) {
	t.Parallel()
	vecs := append(exampleCorpus(), []float64{1, 2, 3}, []float64{7})
	model := trainModel(t, exampleConfig, vecs)
	assert.Equal(t, [][]float64{{25}, {100}}, model.Thresholds())
}

func TestTrainDegenerate(t *testing.T) {
	t.Parallel()
	logger, hook := test.NewNullLogger()
	config := lsh.Config{Tables: 2, BitsPerTable: 2, Dimensions: 2}
	vecs := [][]float64{
		{1, 1}, {1, 1}, // equal pair: zero normal
		{3, 0}, {1, 0},
		{0, 1}, {0, -1},
		{2, 2}, {0, 0},
	}
	model := trainModel(t, config, vecs, lsh.WithLogger(logger))
	assert.Equal(t, 1, model.DegenerateBits())
	assert.Equal(t, []float64{0, 0}, model.Normals()[0][0])

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["table"] == 0 && entry.Data["bit"] == 0 {
			warned = true
		}
	}
	assert.True(t, warned, "degenerate hyperplane must be reported")

	// bit 0 of table 0 can never be set
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		hashes, err := model.ComputeHashes([]float64{rng.NormFloat64() * 10, rng.NormFloat64() * 10})
		require.NoError(t, err)
		assert.Zero(t, hashes[0]&1)
	}
}

func TestTrainedPairsFallOnOppositeSides(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))
	config := lsh.Config{Tables: 4, BitsPerTable: 8, Dimensions: 16}
	vecs := randomCorpus(rng, config)
	model := trainModel(t, config, vecs)

	for table := 0; table < config.Tables; table++ {
		for bit := 0; bit < config.BitsPerTable; bit++ {
			idx := table*2*config.BitsPerTable + 2*bit
			queryHashes, err := model.ComputeHashes(vecs[idx])
			require.NoError(t, err)
			answerHashes, err := model.ComputeHashes(vecs[idx+1])
			require.NoError(t, err)

			assert.Equal(t, uint64(1), (queryHashes[table]>>uint(bit))&1,
				"query of table %d bit %d must be on the positive side", table, bit)
			assert.Equal(t, uint64(0), (answerHashes[table]>>uint(bit))&1,
				"answer of table %d bit %d must be on the negative side", table, bit)
		}
	}
}

func TestTrainLogsModel(t *testing.T) {
	t.Parallel()
	logger, hook := test.NewNullLogger()
	model := trainModel(t, exampleConfig, exampleCorpus(), lsh.WithLogger(logger))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "lsh_train", entry.Data["action"])
	assert.Equal(t, model.ID(), entry.Data["model_id"])
	assert.Equal(t, 2, entry.Data["tables"])
}
