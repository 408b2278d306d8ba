package log

import (
	"fmt"
	"log"
	"strings"
)

// Config declaratively describes a Logger: level, output format, and
// where entries are written.
type Config struct {
	// Level is one of debug/info/warn/error/fatal. Empty defaults to info.
	Level string `json:"level"`
	// Format is one of text/json. Empty defaults to text.
	Format string `json:"format"`
	// FilePath, if set, additionally writes entries to this file.
	FilePath string `json:"filePath"`
}

// ParseLevel converts a level name to a Level. Empty and unrecognized
// input both return an error so callers can fall back to a default
// explicitly rather than silently misconfiguring severity.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg.Level != "" {
		lvl, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = lvl
	}

	var formatter Formatter = &TextFormatter{}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	opts := []LoggerOption{WithLevel(level), WithFormatter(formatter), WithOutput(NewConsoleOutput())}
	if cfg.FilePath != "" {
		fo, err := NewFileOutput(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithOutput(fo))
	}
	return NewLogger(opts...), nil
}

// RedirectStdLog points the standard library's log package at logger, so
// third-party code using log.Printf (Pebble, for instance) is folded into
// the same structured output.
func RedirectStdLog(logger Logger) {
	log.SetFlags(0)
	log.SetOutput(stdLogWriter{logger: logger})
}

type stdLogWriter struct {
	logger Logger
}

func (w stdLogWriter) Write(p []byte) (int, error) {
	w.logger.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
