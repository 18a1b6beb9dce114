package common

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", LogFormatText)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Info("Test Info")
	assert.Zero(t, buf.Len(), "info must be filtered out")
	logger.Warn("Test Warn")
	logger.Error("Test Err")
	assert.Contains(t, buf.String(), "Test Warn")
	assert.Contains(t, buf.String(), "Test Err")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "", LogFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.WithField("action", "lsh_train").Info("trained")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lsh_train", entry["action"])
	assert.Equal(t, "trained", entry["msg"])
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := NewLogger(io.Discard, "loud", LogFormatText)
	assert.Error(t, err)
	_, err = NewLogger(io.Discard, "info", "xml")
	assert.Error(t, err)
}
