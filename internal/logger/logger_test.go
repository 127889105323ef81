package logger_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"debug", logger.DebugLevel},
		{"INFO", logger.InfoLevel},
		{"", logger.InfoLevel},
		{"warning", logger.WarnLevel},
		{"warn", logger.WarnLevel},
		{"error", logger.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := logger.ParseLevel("loud")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestErrorWithCode(t *testing.T) {
	logger.SetLogLevel(logger.DebugLevel)

	var buf bytes.Buffer
	log := logger.New(&buf)

	err := errors.New().Wrap(errors.ErrTimeout, stderrors.New("deadline"))
	log.ErrorWithCode(err).Str("path", "scan.csv").Msg("assessment failed")

	out := buf.String()
	assert.Contains(t, out, `"error_code":"operation_timeout"`)
	assert.Contains(t, out, `"error":"deadline"`)
	assert.Contains(t, out, `"path":"scan.csv"`)
	assert.Contains(t, out, `"message":"assessment failed"`)
}

func TestNopDiscards(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() {
		log.Info().Int("points", 3).Msg("ignored")
		log.Debug().Send()
	})
}
