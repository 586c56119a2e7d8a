package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"bogus", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, closer, err := New(domain.LoggingConfig{Level: tt.level, Output: "stderr"})
			require.NoError(t, err)
			defer closer.Close()

			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_JSONFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reconciler.log")

	logger, closer, err := New(domain.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.WithField("assay", "TWE").Info("reconciled")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "reconciled", entry["message"])
	assert.Equal(t, "TWE", entry["assay"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_TextFormatter(t *testing.T) {
	logger, _, err := New(domain.LoggingConfig{Format: "text"})
	require.NoError(t, err)

	_, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestNew_BadPath(t *testing.T) {
	_, _, err := New(domain.LoggingConfig{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
