package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/internal/handlers"
	"github.com/refugestudios/racing-game/internal/headless"
	"github.com/refugestudios/racing-game/pkg/hostapi"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644))
}

func TestRuntimeRecordsSessionToMemoryExport(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{
		"logLevel": "debug",
		"logsDir": "logs",
		"logToFile": true,
		"storage": {"type": "memory", "memory": {"outputDir": "recordings", "compressOutput": false}}
	}`)

	rt := newRuntime(dir, io.Discard)
	h := headless.New()
	require.NoError(t, rt.game.Init(h))

	assert.True(t, rt.sessionEvent(handlers.CommandReady, 1))
	assert.True(t, rt.sessionEvent(handlers.CommandJoin, 2))
	assert.False(t, rt.sessionEvent(handlers.CommandJoin, 2))
	h.Press(hostapi.KeyW)
	for range 10 {
		rt.game.Update(0.1)
	}
	assert.True(t, rt.sessionEvent(handlers.CommandDisconnect, 2))
	require.NoError(t, rt.close())
	require.NoError(t, h.Leaks())

	exports, err := filepath.Glob(filepath.Join(dir, "recordings", "session_1_*.json"))
	require.NoError(t, err)
	assert.Len(t, exports, 1)

	logs, err := filepath.Glob(filepath.Join(dir, "logs", "racing-game.*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Initializing Racing Demo")
	assert.Contains(t, string(data), "Storage backend initialized")
}

func TestRuntimeWithoutConfigFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	viper.Set("storage.type", "none")

	rt := newRuntime(dir, io.Discard)
	assert.Nil(t, rt.backend)
	assert.Nil(t, rt.telemetry)
	assert.Nil(t, rt.logFile)

	h := headless.New()
	require.NoError(t, rt.game.Init(h))
	assert.True(t, rt.sessionEvent(handlers.CommandReady, 4))
	require.NoError(t, rt.close())
	require.NoError(t, h.Leaks())
}

func TestRuntimeUnknownStorageTypeKeepsRunning(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	writeConfig(t, dir, `{"storage": {"type": "cassette"}}`)

	rt := newRuntime(dir, io.Discard)
	assert.Nil(t, rt.backend)

	h := headless.New()
	require.NoError(t, rt.game.Init(h))
	rt.game.Update(0.1)
	require.NoError(t, rt.close())
}

func TestUnknownCommandIsNotApplied(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("storage.type", "none")
	rt := newRuntime(t.TempDir(), io.Discard)

	assert.False(t, rt.sessionEvent(":SPECTATE:", 1))
}

func TestResolvePath(t *testing.T) {
	base := filepath.Join("opt", "oasis", "games")
	abs, err := filepath.Abs("recordings")
	require.NoError(t, err)

	assert.Equal(t, "", resolvePath(base, ""))
	assert.Equal(t, abs, resolvePath(base, abs))
	assert.Equal(t, filepath.Join(base, "logs"), resolvePath(base, "logs"))
}

func TestOpenLogFileKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "racing-game.log")

	f, err := openLogFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("first\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = openLogFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	old, err := os.ReadFile(path + ".old")
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(old))
}
