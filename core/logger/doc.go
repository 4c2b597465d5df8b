// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance tuned for a CLI tool: console
// encoding with colored levels for interactive use, or JSON when logs are
// collected by something else.
//
// # Run Correlation
//
// Every invocation of the sync tool is tagged with a run id. The WithRunID
// helper generates a fresh id and attaches it to the logger, ensuring that
// all log lines belonging to a single run can be correlated after the fact.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: console (interactive) or json
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log, runID := logger.WithRunID(log)
//	log.Info("sync started")
package logger
