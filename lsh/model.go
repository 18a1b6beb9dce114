package lsh

import (
	"io"

	"github.com/gasparian/lsh-model-go/codec"
	"github.com/gasparian/lsh-model-go/corpus"
	"github.com/gasparian/lsh-model-go/store"
	"github.com/gasparian/lsh-model-go/store/file"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/blas/blas64"

	// default corpus formats
	_ "github.com/gasparian/lsh-model-go/corpus/fvecs"
	_ "github.com/gasparian/lsh-model-go/corpus/msgpack"
)

// hyperplanes holds normals (one row per bit) and thresholds of a single table
type hyperplanes struct {
	normals    blas64.General
	thresholds []float64
}

func newHyperplanes(bits, dims int) hyperplanes {
	return hyperplanes{
		normals: blas64.General{
			Rows:   bits,
			Cols:   dims,
			Stride: dims,
			Data:   make([]float64, bits*dims),
		},
		thresholds: make([]float64, bits),
	}
}

// normal returns the row of bit j; it shares memory with the table
func (h *hyperplanes) normal(j int) blas64.Vector {
	start := j * h.normals.Stride
	return NewVec(h.normals.Data[start : start+h.normals.Cols])
}

// Model holds hyperplanes of every hash table.
// It is written once inside New and is read-only afterwards,
// so all its methods are safe for concurrent use.
type Model struct {
	config     Config
	id         string
	tables     []hyperplanes
	degenerate int

	logger      logrus.FieldLogger
	store       store.Store
	loader      corpus.Loader
	metrics     *Metrics
	compression codec.Compression
}

// Option customizes the Model created by New
type Option func(*Model)

// WithLogger sets the logger; by default nothing is logged
func WithLogger(logger logrus.FieldLogger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStore sets where Save and LoadFrom keep blobs; by default paths are plain files
func WithStore(s store.Store) Option {
	return func(m *Model) {
		if s != nil {
			m.store = s
		}
	}
}

// WithCorpusLoader sets the loader used by TrainFrom; by default the format is picked by extension
func WithCorpusLoader(loader corpus.Loader) Option {
	return func(m *Model) {
		if loader != nil {
			m.loader = loader
		}
	}
}

// WithMetrics enables prometheus metrics
func WithMetrics(metrics *Metrics) Option {
	return func(m *Model) {
		m.metrics = metrics
	}
}

// WithCompression sets blob compression used by Save
func WithCompression(compression codec.Compression) Option {
	return func(m *Model) {
		m.compression = compression
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// New creates the model either by training it or by loading it, depending on source
func New(config Config, source Source, opts ...Option) (*Model, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	kind, err := source.resolve()
	if err != nil {
		return nil, err
	}
	m := &Model{
		config:      config,
		logger:      discardLogger(),
		store:       file.New(""),
		loader:      corpus.Default,
		compression: codec.CompressionZstd,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithFields(logrus.Fields{
		"tables":     config.Tables,
		"bits":       config.BitsPerTable,
		"dimensions": config.Dimensions,
	})

	switch kind {
	case sourceCorpusFile:
		err = m.trainFromPath(source.CorpusPath)
	case sourceVectors:
		err = m.train(source.Vectors)
	default:
		err = m.load(source.NormalsPath, source.ThresholdsPath)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Config returns the model shape
func (m *Model) Config() Config {
	return m.config
}

// ID returns the id generated when the model was trained
func (m *Model) ID() string {
	return m.id
}

// DegenerateBits returns the number of hyperplanes with zero normal;
// such bits are always 0 for any input vector
func (m *Model) DegenerateBits() int {
	return m.degenerate
}

// Normals returns a copy of normals: tables -> bits -> dimensions
func (m *Model) Normals() [][][]float64 {
	out := make([][][]float64, len(m.tables))
	for t := range m.tables {
		table := &m.tables[t]
		out[t] = make([][]float64, table.normals.Rows)
		for j := range out[t] {
			row := make([]float64, table.normals.Cols)
			copy(row, table.normal(j).Data)
			out[t][j] = row
		}
	}
	return out
}

// Thresholds returns a copy of thresholds: tables -> bits
func (m *Model) Thresholds() [][]float64 {
	out := make([][]float64, len(m.tables))
	for t := range m.tables {
		out[t] = make([]float64, len(m.tables[t].thresholds))
		copy(out[t], m.tables[t].thresholds)
	}
	return out
}

func countDegenerate(tables []hyperplanes) int {
	var n int
	for t := range tables {
		for j := 0; j < tables[t].normals.Rows; j++ {
			if IsZeroVector(tables[t].normal(j)) {
				n++
			}
		}
	}
	return n
}
