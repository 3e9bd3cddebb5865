package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"
)

// newLogger builds the CLI logger: a console handler on w, plus a JSON
// handler on logPath when set. The returned func closes the log file.
func newLogger(w io.Writer, debug bool, logPath string) (*slog.Logger, func() error, error) {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	console := log.NewWithOptions(w, log.Options{
		Level:        level,
		Prefix:       "sshrun",
		ReportCaller: false,
	})

	if logPath == "" {
		return slog.New(console), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(slogmulti.Fanout(console, file)), f.Close, nil
}
