package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, "library.json", cfg.LibraryFile)
	assert.Equal(t, "last", cfg.IDPolicy)
	assert.Equal(t, "json", cfg.StorageDriver)
	assert.Equal(t, "library_books", cfg.StorageTable)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.LogFormat)
	assert.Equal(t, "stderr", cfg.LogOutput)
	assert.Equal(t, ":8080", cfg.ServerAddr)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `file: books/library.json
id_policy: max
storage:
  driver: postgres
  dsn: postgres://localhost/library
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "library.yaml"), []byte(content), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Contains(t, cfg.ConfigFile, "library.yaml")
	assert.Equal(t, "books/library.json", cfg.LibraryFile)
	assert.Equal(t, "max", cfg.IDPolicy)
	assert.Equal(t, "postgres", cfg.StorageDriver)
	assert.Equal(t, "postgres://localhost/library", cfg.StorageDSN)
	assert.Equal(t, "library_books", cfg.StorageTable)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LIBRARY_FILE", "/tmp/env-library.json")
	t.Setenv("LIBRARY_LOG_LEVEL", "warn")
	t.Setenv("LIBRARY_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env-library.json", cfg.LibraryFile)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddr)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// registered so the variable godotenv sets is removed afterwards
	t.Setenv("LIBRARY_FORMAT", "")
	require.NoError(t, os.Unsetenv("LIBRARY_FORMAT"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LIBRARY_FORMAT=yaml\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoader_BindFlag(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LIBRARY_FILE", "/from/env.json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("file", "", "library file")
	require.NoError(t, flags.Parse([]string{"--file", "/from/flag.json"}))

	loader := NewLoader()
	require.NoError(t, loader.BindFlag(KeyFile, flags.Lookup("file")))
	assert.Error(t, loader.BindFlag(KeyFormat, flags.Lookup("missing")))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.json", cfg.LibraryFile)
}
