package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/nibble-vm/nibble/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Console(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(config.Config{}, &console, afero.NewMemMapFs())
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("hidden")
	logger.Info("shown", "pc", 3)

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
	assert.Contains(t, console.String(), "pc=3")
}

func TestNew_Verbose(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(config.Config{Verbose: true}, &console, afero.NewMemMapFs())
	require.NoError(t, err)

	logger.Debug("fetch")
	assert.Contains(t, console.String(), "fetch")
	assert.Equal(t, slog.LevelDebug, Level(config.Config{Verbose: true}))
}

func TestNew_LogFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	var console bytes.Buffer

	logger, err := New(config.Config{LogFile: "nibble.log"}, &console, fs)
	require.NoError(t, err)

	logger.Debug("traced", "word", "0x2001")
	logger.Warn("truncating")
	require.NoError(t, logger.Close())

	assert.NotContains(t, console.String(), "traced")
	assert.Contains(t, console.String(), "truncating")

	data, err := afero.ReadFile(fs, "nibble.log")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "traced", record["msg"])
	assert.Equal(t, "0x2001", record["word"])
}

func TestNew_LogFileError(t *testing.T) {
	_, err := New(config.Config{LogFile: "nibble.log"}, &bytes.Buffer{}, afero.NewReadOnlyFs(afero.NewMemMapFs()))
	assert.ErrorContains(t, err, "nibble.log")
}
