// Package logging builds the zap loggers shared by the binaries and tests.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Format selects the encoder.
type Format string

const (
	// FormatAuto picks console on a terminal and JSON otherwise.
	FormatAuto Format = "auto"
	// FormatConsole is zap's human-readable encoder.
	FormatConsole Format = "console"
	// FormatJSON is zap's JSON encoder.
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	Level  string
	Format Format
	// Output defaults to stderr so stdout stays clean for command results.
	Output *os.File
}

// New builds a logger writing to opts.Output. FormatAuto picks the console
// encoder on a terminal and JSON otherwise.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch resolveFormat(opts.Format, out) {
	case FormatConsole:
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case FormatJSON:
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(out), level)
	return zap.New(core), nil
}

func resolveFormat(format Format, out *os.File) Format {
	switch format {
	case "", FormatAuto:
		if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
			return FormatConsole
		}
		return FormatJSON
	default:
		return format
	}
}

// NewTestLogger returns a new logger and observed logs for testing.
func NewTestLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zap.DebugLevel)
	return zap.New(core), recorded
}
