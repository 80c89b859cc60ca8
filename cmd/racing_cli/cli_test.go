package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/internal/storage/memory"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644))
}

func TestRunWithoutCommand(t *testing.T) {
	assert.ErrorIs(t, run(nil, &bytes.Buffer{}), errUsage)
	assert.ErrorIs(t, run([]string{"replay"}, &bytes.Buffer{}), errUsage)
}

func TestSimulateWithMemoryExport(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	recordings := filepath.Join(dir, "recordings")
	writeConfig(t, dir, fmt.Sprintf(`{
		"logLevel": "warn",
		"storage": {"type": "memory", "memory": {"outputDir": %q, "compressOutput": false}}
	}`, recordings))

	var out bytes.Buffer
	err := run([]string{"simulate", "-config", dir, "-frames", "60", "-dt", "0.1", "-clients", "2"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "frames=60")
	assert.Contains(t, out.String(), "events=3")
	assert.Contains(t, out.String(), "errors=0")
	assert.Contains(t, out.String(), "exported ")

	files, err := filepath.Glob(filepath.Join(recordings, "session_1_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var export memory.SessionExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, uint(60), export.Frames)
	assert.Len(t, export.Events, 3)
	assert.NotEmpty(t, export.Samples)
	assert.Greater(t, export.TrailLength, 0.0)
}

func TestSimulateRejectsBadInput(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{"storage": {"type": "none"}}`)

	assert.Error(t, run([]string{"simulate", "-config", dir, "-clients", "0"}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"simulate", "-config", dir, "-steer", "up", "-frames", "1"}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"simulate", "-bogus"}, &bytes.Buffer{}))
}

func TestSimulateListExportWithSQLite(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sessions.db")
	writeConfig(t, dir, fmt.Sprintf(`{
		"logLevel": "warn",
		"storage": {"type": "sqlite", "sqlite": {"path": %q}}
	}`, dbPath))

	var out bytes.Buffer
	err := run([]string{"simulate", "-config", dir, "-frames", "120", "-dt", "0.05", "-clients", "3", "-steer", "left"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "events=5")
	assert.NotContains(t, out.String(), "exported ")

	out.Reset()
	require.NoError(t, run([]string{"list", "-config", dir}, &out))
	assert.Contains(t, out.String(), "120 frames")

	exportDir := filepath.Join(dir, "exports")
	out.Reset()
	require.NoError(t, run([]string{"export", "-config", dir, "-out", exportDir, "1"}, &out))
	assert.Contains(t, out.String(), "Wrote session 1")

	files, err := filepath.Glob(filepath.Join(exportDir, "session_1_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var export memory.SessionExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, uint(1), export.SessionID)
	assert.Equal(t, uint(120), export.Frames)
	assert.Len(t, export.Events, 5)
	require.NotNil(t, export.LocalID)
	assert.Equal(t, uint64(1), *export.LocalID)
}

func TestExportErrors(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, fmt.Sprintf(`{"storage": {"type": "sqlite", "sqlite": {"path": %q}}}`,
		filepath.Join(dir, "missing.db")))

	assert.Error(t, run([]string{"export", "-config", dir}, &bytes.Buffer{}), "no ids")
	assert.Error(t, run([]string{"export", "-config", dir, "abc"}, &bytes.Buffer{}), "bad id")
	assert.Error(t, run([]string{"export", "-config", dir, "1"}, &bytes.Buffer{}), "missing database")
	_, err := os.Stat(filepath.Join(dir, "missing.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestListRejectsMemoryStorage(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{"storage": {"type": "memory"}}`)

	assert.Error(t, run([]string{"list", "-config", dir}, &bytes.Buffer{}))
}
