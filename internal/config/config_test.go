package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 2000, cfg.MaxRecursionDepth)
	assert.Equal(t, 0, cfg.ExecutionTimeoutMS)
	assert.False(t, cfg.EnableDebugStream)
	assert.Zero(t, cfg.ExecutionTimeout())
}

func TestExecutionTimeoutConversion(t *testing.T) {
	cfg := Config{ExecutionTimeoutMS: 500}
	assert.Equal(t, 500*time.Millisecond, cfg.ExecutionTimeout())

	cfg = Config{ExecutionTimeoutMS: 0}
	assert.Zero(t, cfg.ExecutionTimeout())

	cfg = Config{ExecutionTimeoutMS: -1}
	assert.Zero(t, cfg.ExecutionTimeout())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, writeFile(path, "enable_debug_stream = true\n"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.EnableDebugStream)
	assert.Equal(t, 2000, cfg.MaxRecursionDepth, "unspecified field should keep the Default() value")
}

func TestLoadFullFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, writeFile(path, `
max_recursion_depth = 500
execution_timeout_ms = 2000
enable_debug_stream = true
`))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.MaxRecursionDepth)
	assert.Equal(t, 2*time.Second, cfg.ExecutionTimeout())
	assert.True(t, cfg.EnableDebugStream)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
