package lsh

import (
	"github.com/pkg/errors"
)

type sourceKind int

const (
	sourceUnset sourceKind = iota
	sourceCorpusFile
	sourceVectors
	sourceModel
)

// Source tells New where the hyperplanes come from: either a training corpus
// (CorpusPath or Vectors) or a persisted model (NormalsPath and ThresholdsPath).
// Exactly one of the two must be set. Sources built with TrainFrom, TrainFromVectors
// and LoadFrom keep their kind even when the given values are empty.
type Source struct {
	CorpusPath string
	Vectors    [][]float64

	NormalsPath    string
	ThresholdsPath string

	kind sourceKind
}

// TrainFrom builds the model from the sample corpus stored at corpusPath
func TrainFrom(corpusPath string) Source {
	return Source{CorpusPath: corpusPath, kind: sourceCorpusFile}
}

// TrainFromVectors builds the model from an in-memory sample corpus
func TrainFromVectors(vecs [][]float64) Source {
	return Source{Vectors: vecs, kind: sourceVectors}
}

// LoadFrom restores the model from the two persisted blobs
func LoadFrom(normalsPath, thresholdsPath string) Source {
	return Source{NormalsPath: normalsPath, ThresholdsPath: thresholdsPath, kind: sourceModel}
}

// resolve returns the kind of the source or ErrInvalidConfiguration
// if it names none or more than one of them
func (s Source) resolve() (sourceKind, error) {
	corpusFile := s.kind == sourceCorpusFile || s.CorpusPath != ""
	vectors := s.kind == sourceVectors || s.Vectors != nil
	model := s.kind == sourceModel || s.NormalsPath != "" || s.ThresholdsPath != ""
	switch {
	case (corpusFile || vectors) && model:
		return sourceUnset, errors.Wrap(ErrInvalidConfiguration, "both training corpus and persisted model are given")
	case corpusFile && vectors:
		return sourceUnset, errors.Wrap(ErrInvalidConfiguration, "both corpus path and in-memory vectors are given")
	case corpusFile:
		if s.CorpusPath == "" {
			return sourceUnset, errors.Wrap(ErrInvalidConfiguration, "corpus path is empty")
		}
		return sourceCorpusFile, nil
	case vectors:
		return sourceVectors, nil
	case model:
		if s.NormalsPath == "" || s.ThresholdsPath == "" {
			return sourceUnset, errors.Wrap(ErrInvalidConfiguration, "both normals and thresholds paths are required")
		}
		return sourceModel, nil
	}
	return sourceUnset, errors.Wrap(ErrInvalidConfiguration, "no training corpus or persisted model given")
}
