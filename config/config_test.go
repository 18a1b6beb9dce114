package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gasparian/lsh-model-go/lsh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lsh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
model:
  tables: 10
  bits_per_table: 16
  dimensions: 96
store:
  kind: bolt
  path: /tmp/models.db
  timeout: 2s
log:
  level: debug
workers: 4
`)
	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, lsh.Config{Tables: 10, BitsPerTable: 16, Dimensions: 96}, config.Model)
	assert.Equal(t, StoreBolt, config.Store.Kind)
	assert.Equal(t, 2*time.Second, config.Store.Timeout)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format, "defaults must survive")
	assert.True(t, config.Compress)
	assert.Equal(t, 4, config.Workers)
	assert.NoError(t, config.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "model:\n  tabels: 3\n"))
	assert.Error(t, err, "unknown fields must be rejected")
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Model = lsh.Config{Tables: 1, BitsPerTable: 1, Dimensions: 1}
	require.NoError(t, valid.Validate())

	noModel := Default()
	assert.ErrorIs(t, noModel.Validate(), lsh.ErrInvalidConfiguration)

	bolt := valid
	bolt.Store.Kind = StoreBolt
	assert.Error(t, bolt.Validate())

	purekv := valid
	purekv.Store.Kind = StorePureKv
	assert.Error(t, purekv.Validate())
	purekv.Store.Address = "0.0.0.0:6666"
	assert.NoError(t, purekv.Validate())

	unknown := valid
	unknown.Store.Kind = "s3"
	assert.Error(t, unknown.Validate())

	workers := valid
	workers.Workers = -1
	assert.Error(t, workers.Validate())
}
