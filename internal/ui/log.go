package ui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the debug log written inside the stack-pr directory
const LogFileName = "debug.log"

// NewLogger returns the logger for a run. Debug logs go to a rotated file at
// path and every record carries the run ID, so the parent sync and its rebase
// exec children can be told apart in one file. Without debug everything is
// discarded. The returned closer must be closed when the run ends.
func NewLogger(path string, debug bool, runID string) (*slog.Logger, io.Closer, error) {
	if !debug || path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(handler).With("run", runID, "pid", os.Getpid())
	return logger, writer, nil
}
