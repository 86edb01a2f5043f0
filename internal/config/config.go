// Package config loads library-manager settings from, in order of
// precedence: command-line flags (bound by the caller), LIBRARY_* environment
// variables, .env files, a YAML config file, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "LIBRARY"

// Config keys.
const (
	KeyFile          = "file"
	KeyFormat        = "format"
	KeyIDPolicy      = "id_policy"
	KeyTemplate      = "template"
	KeyStorageDriver = "storage.driver"
	KeyStorageDSN    = "storage.dsn"
	KeyStorageTable  = "storage.table"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogOutput     = "log.output"
	KeyServerAddr    = "server.addr"
)

// Config holds the application configuration.
type Config struct {
	// Config file actually read, empty if none
	ConfigFile string

	// Library
	LibraryFile string
	IDPolicy    string

	// Storage backend
	StorageDriver string
	StorageDSN    string
	StorageTable  string

	// Output
	Format       string
	TemplateFile string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// HTTP server
	ServerAddr string
}

// Loader wraps a viper instance so flags can be bound before Load.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with defaults and environment binding set up.
func NewLoader() *Loader {
	v := viper.New()

	v.SetDefault(KeyFile, "library.json")
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyIDPolicy, "last")
	v.SetDefault(KeyTemplate, "")
	v.SetDefault(KeyStorageDriver, "json")
	v.SetDefault(KeyStorageDSN, "")
	v.SetDefault(KeyStorageTable, "library_books")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "auto")
	v.SetDefault(KeyLogOutput, "stderr")
	v.SetDefault(KeyServerAddr, ":8080")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// BindFlag makes a command-line flag override the value at key.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("cannot bind nil flag to %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads .env files and the config file, then builds a Config.
// An explicit configFile must exist; the default ./library.yaml is optional.
func (l *Loader) Load(configFile string) (*Config, error) {
	loadEnvFiles()

	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		l.v.AddConfigPath(".")
		l.v.SetConfigName("library")
		l.v.SetConfigType("yaml")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		ConfigFile:    l.v.ConfigFileUsed(),
		LibraryFile:   l.v.GetString(KeyFile),
		IDPolicy:      l.v.GetString(KeyIDPolicy),
		StorageDriver: l.v.GetString(KeyStorageDriver),
		StorageDSN:    l.v.GetString(KeyStorageDSN),
		StorageTable:  l.v.GetString(KeyStorageTable),
		Format:        l.v.GetString(KeyFormat),
		TemplateFile:  l.v.GetString(KeyTemplate),
		LogLevel:      l.v.GetString(KeyLogLevel),
		LogFormat:     l.v.GetString(KeyLogFormat),
		LogOutput:     l.v.GetString(KeyLogOutput),
		ServerAddr:    l.v.GetString(KeyServerAddr),
	}

	return cfg, nil
}

// Load is a convenience for NewLoader().Load(configFile).
func Load(configFile string) (*Config, error) {
	return NewLoader().Load(configFile)
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment win.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
