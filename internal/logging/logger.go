// Package logging builds the zerolog loggers used by the library manager
// binaries. Console output is chosen automatically when stderr is a terminal;
// otherwise logs are written as JSON lines.
//
// Example usage:
//
//	logger := logging.New(&logging.Config{Level: "debug"})
//	logger.Info().Int("id", 3).Msg("Book added")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Nop discards everything.
var Nop = zerolog.Nop()

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum log level to output (trace, debug, info, warn, error).
	Level string

	// Format is the output format: auto, console or json.
	Format string

	// Output is where to write logs: stderr, stdout, discard, or a file path.
	Output string

	// NoColor disables color output in console mode.
	NoColor bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// New creates a logger from configuration.
func New(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := ParseLevel(cfg.Level)

	logger := zerolog.New(writer(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// ParseLevel converts a level name, falling back to info for unknown input.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func writer(cfg *Config) io.Writer {
	var out io.Writer
	var fd uintptr
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out, fd = os.Stderr, os.Stderr.Fd()
	case "stdout":
		out, fd = os.Stdout, os.Stdout.Fd()
	case "discard", "none":
		return io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			out, fd = os.Stderr, os.Stderr.Fd()
		} else {
			// Files never get the console writer in auto mode.
			return formatWriter(f, cfg, false)
		}
	}

	return formatWriter(out, cfg, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func formatWriter(out io.Writer, cfg *Config, terminal bool) io.Writer {
	switch strings.ToLower(cfg.Format) {
	case "json":
		return out
	case "console", "pretty", "text":
		return consoleWriter(out, cfg.NoColor)
	default:
		if terminal {
			return consoleWriter(out, cfg.NoColor)
		}
		return out
	}
}

func consoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
}
