package pid_test

import (
	"os"
	"strconv"
	"testing"

	"codeberg.org/mutker/laserscanqa/internal/errors"
	"codeberg.org/mutker/laserscanqa/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRemove(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, pid.Write(dir))

	data, err := os.ReadFile(pid.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, pid.Remove(dir))
	_, err = os.Stat(pid.Path(dir))
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine
	assert.NoError(t, pid.Remove(dir))
}

func TestWriteHeldLock(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, pid.Write(dir))

	err := pid.Write(dir)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, pid.FileName, entries[0].Name())

	require.NoError(t, pid.Remove(dir))
	assert.NoError(t, pid.Write(dir))
}

func TestWriteLiveOwner(t *testing.T) {
	dir := t.TempDir()

	// The parent of the test binary is alive for the whole test.
	owner := os.Getppid()
	require.NoError(t, os.WriteFile(pid.Path(dir), []byte(strconv.Itoa(owner)), 0o644))

	err := pid.Write(dir)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStaleFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "dead process", content: "2147483000"},
		{name: "garbage", content: "not-a-pid"},
		{name: "empty", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(pid.Path(dir), []byte(tt.content), 0o644))

			require.NoError(t, pid.Write(dir))

			data, err := os.ReadFile(pid.Path(dir))
			require.NoError(t, err)
			assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
		})
	}
}

func TestWriteMissingDir(t *testing.T) {
	err := pid.Write(t.TempDir() + "/missing")
	assert.Error(t, err)
}
