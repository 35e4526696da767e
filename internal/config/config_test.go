package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, StoreFile, cfg.Store.Backend)
	assert.Equal(t, "credentials.json", filepath.Base(cfg.Store.Path))
	assert.Equal(t, OutputTable, cfg.Output.Format)
	assert.Equal(t, 2*time.Second, cfg.Scanner.Debounce)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GATECHECK_API_TIMEOUT", "3s")
	t.Setenv("GATECHECK_STORE_BACKEND", "sqlite")
	t.Setenv("GATECHECK_API_BASE_URL", "https://tickets.example.org/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.Equal(t, "credentials.db", filepath.Base(cfg.Store.Path))
	assert.Equal(t, "https://tickets.example.org", cfg.API.BaseURL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gatecheck.yaml")
	content := []byte("store:\n  backend: memory\noutput:\n  format: yaml\nscanner:\n  debounce: 0s\n")
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Empty(t, cfg.Store.Path)
	assert.Equal(t, OutputYAML, cfg.Output.Format)
	assert.Zero(t, cfg.Scanner.Debounce)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		API:    APIConfig{Timeout: time.Second},
		Store:  StoreConfig{Backend: StoreFile},
		Output: OutputConfig{Format: OutputJSON},
	}
	require.NoError(t, valid.Validate())

	badStore := valid
	badStore.Store.Backend = "redis"
	assert.Error(t, badStore.Validate())

	badFormat := valid
	badFormat.Output.Format = "xml"
	assert.Error(t, badFormat.Validate())

	badTimeout := valid
	badTimeout.API.Timeout = 0
	assert.Error(t, badTimeout.Validate())

	badDebounce := valid
	badDebounce.Scanner.Debounce = -time.Second
	assert.Error(t, badDebounce.Validate())
}
