// Package logging builds the zap logger used by the CLI and the wizard.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logFilePerm = 0o644
	logDirPerm  = 0o755
)

type Options struct {
	// File is appended to. Empty means stderr.
	File  string
	Debug bool
}

// New returns a console-encoded logger and a close func for the file sink.
// Logs never go to stdout so the TUI and JSON output stay clean.
func New(opts Options) (*zap.Logger, func() error, error) {
	var (
		sink    zapcore.WriteSyncer
		closeFn = func() error { return nil }
	)

	if opts.File == "" {
		sink = zapcore.Lock(os.Stderr)
	} else {
		if err := os.MkdirAll(filepath.Dir(opts.File), logDirPerm); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePerm)
		if err != nil {
			return nil, nil, err
		}
		sink = zapcore.AddSync(f)
		closeFn = f.Close
	}

	return NewWithWriter(sink, opts.Debug), closeFn, nil
}

// NewWithWriter builds the logger on an arbitrary writer.
func NewWithWriter(w io.Writer, debug bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level.SetLevel(zap.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
