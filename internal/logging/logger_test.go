package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"trace":   zerolog.TraceLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.log")

	logger := New(&Config{Level: "warn", Format: "auto", Output: path})
	logger.Info().Msg("hidden")
	logger.Warn().Str("path", "library.json").Msg("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "hidden")
	assert.Contains(t, content, `"message":"visible"`)
	assert.Contains(t, content, `"path":"library.json"`)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(content), "\n")+1)
}

func TestNew_Defaults(t *testing.T) {
	logger := New(nil)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	discard := New(&Config{Level: "error", Output: "discard"})
	assert.Equal(t, zerolog.ErrorLevel, discard.GetLevel())
}
