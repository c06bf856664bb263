package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Pritam-72/Aptex-Wallet-sub001/internal/config"
)

// Stderr as logging.file sends log lines to the terminal instead of a file.
const Stderr = "-"

// Setup configures the standard logrus logger. The returned function closes
// the log file, if one was opened.
func Setup(cfg config.LoggingConfig, defaultFile string) (func(), error) {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level %q: %w", cfg.Level, err)
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: cfg.File != Stderr})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid logging.format %q (must be text or json)", cfg.Format)
	}

	path := cfg.File
	if path == "" {
		path = defaultFile
	}
	if path == Stderr || path == "" {
		logrus.SetOutput(os.Stderr)
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("can not create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("can not open log file %s: %w", path, err)
	}
	logrus.SetOutput(f)

	return func() {
		logrus.SetOutput(io.Discard)
		_ = f.Close()
	}, nil
}
