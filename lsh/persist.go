package lsh

import (
	"github.com/gasparian/lsh-model-go/codec"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Save writes normals and thresholds as two independent blobs into the model store
func (m *Model) Save(normalsPath, thresholdsPath string) error {
	normalsBlob, err := codec.EncodeNormals(m.id, m.Normals(), m.compression)
	if err != nil {
		return errors.Wrap(err, "encode normals")
	}
	thresholdsBlob, err := codec.EncodeThresholds(m.id, m.Thresholds(), m.compression)
	if err != nil {
		return errors.Wrap(err, "encode thresholds")
	}
	if err := m.store.Put(normalsPath, normalsBlob); err != nil {
		return errors.Wrapf(err, "save normals to %q", normalsPath)
	}
	if err := m.store.Put(thresholdsPath, thresholdsBlob); err != nil {
		return errors.Wrapf(err, "save thresholds to %q", thresholdsPath)
	}
	m.logger.WithFields(logrus.Fields{
		"action":     "lsh_save",
		"model_id":   m.id,
		"normals":    normalsPath,
		"thresholds": thresholdsPath,
	}).Info("lsh model saved")
	return nil
}

// load reads both blobs and checks their shape against the model config
func (m *Model) load(normalsPath, thresholdsPath string) error {
	normalsBlob, err := m.store.Get(normalsPath)
	if err != nil {
		return errors.Wrapf(err, "read normals from %q", normalsPath)
	}
	normalsID, normals, err := codec.DecodeNormals(normalsBlob)
	if err != nil {
		return errors.Wrapf(err, "decode normals from %q", normalsPath)
	}
	if err := m.checkNormalsShape(normals); err != nil {
		return err
	}

	thresholdsBlob, err := m.store.Get(thresholdsPath)
	if err != nil {
		return errors.Wrapf(err, "read thresholds from %q", thresholdsPath)
	}
	thresholdsID, thresholds, err := codec.DecodeThresholds(thresholdsBlob)
	if err != nil {
		return errors.Wrapf(err, "decode thresholds from %q", thresholdsPath)
	}
	if err := m.checkThresholdsShape(thresholds); err != nil {
		return err
	}

	if normalsID != "" && thresholdsID != "" && normalsID != thresholdsID {
		m.logger.WithFields(logrus.Fields{
			"action":        "lsh_load",
			"normals_id":    normalsID,
			"thresholds_id": thresholdsID,
		}).Warn("normals and thresholds come from different trained models")
	}

	tables := make([]hyperplanes, m.config.Tables)
	for t := range tables {
		table := newHyperplanes(m.config.BitsPerTable, m.config.Dimensions)
		for j, normal := range normals[t] {
			copy(table.normal(j).Data, normal)
		}
		copy(table.thresholds, thresholds[t])
		tables[t] = table
	}
	m.tables = tables
	m.id = normalsID
	m.degenerate = countDegenerate(tables)
	m.metrics.loaded(m.degenerate)

	m.logger.WithFields(logrus.Fields{
		"action":          "lsh_load",
		"model_id":        m.id,
		"degenerate_bits": m.degenerate,
	}).Info("lsh model loaded")
	return nil
}

func (m *Model) checkNormalsShape(normals [][][]float64) error {
	if len(normals) != m.config.Tables {
		return errors.Wrapf(ErrModelShapeMismatch, "normals hold %d tables, expected %d", len(normals), m.config.Tables)
	}
	for t, table := range normals {
		if len(table) != m.config.BitsPerTable {
			return errors.Wrapf(ErrModelShapeMismatch,
				"normals of table %d hold %d bits, expected %d", t, len(table), m.config.BitsPerTable)
		}
		for j, normal := range table {
			if len(normal) != m.config.Dimensions {
				return errors.Wrapf(ErrModelShapeMismatch,
					"normal %d of table %d has %d dimensions, expected %d", j, t, len(normal), m.config.Dimensions)
			}
		}
	}
	return nil
}

func (m *Model) checkThresholdsShape(thresholds [][]float64) error {
	if len(thresholds) != m.config.Tables {
		return errors.Wrapf(ErrModelShapeMismatch,
			"thresholds hold %d tables, expected %d", len(thresholds), m.config.Tables)
	}
	for t, table := range thresholds {
		if len(table) != m.config.BitsPerTable {
			return errors.Wrapf(ErrModelShapeMismatch,
				"thresholds of table %d hold %d bits, expected %d", t, len(table), m.config.BitsPerTable)
		}
	}
	return nil
}
