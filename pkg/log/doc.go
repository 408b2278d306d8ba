// Package log provides dispatchq's structured logging facade and utilities.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a custom handler that preserves our existing
// formatter/outputs pipeline. This allows adoption of the slog ecosystem
// while keeping consistent output and behavior across the codebase.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"), log.Str("ns", "default"))
//	l.Info("server started", log.Int("port", 8080))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config, supporting JSON
// or text formatting, console output, and an optional file output. NullOutput
// can be passed with WithOutput for a silent logger. There are no hooks:
// redaction and sampling are not provided.
//
// # Interop
//
// To fold output written through the standard library's log package into a
// Logger, use RedirectStdLog. The slog.Logger behind a BaseLogger is not
// exported; code outside this package works against the Logger facade.
package log
