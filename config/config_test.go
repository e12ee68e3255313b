package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8648, cfg.Port)
	assert.Equal(t, 64, cfg.K)
	assert.Equal(t, 128, cfg.N)
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "da.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: 8\nn: 16\nshare_size: 512\nport: 9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.K)
	assert.Equal(t, 16, cfg.N)
	assert.Equal(t, 512, cfg.ShareBytes)
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "da.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\n"), 0o644))

	t.Setenv("ANIMICA_DA_PORT", "7777")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Port)
}

func TestLoadRejectsInvalidShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "da.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: 10\nn: 5\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.NoError(t, err)
}
