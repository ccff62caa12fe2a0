// Package logging provides structured logging utilities with context propagation.
//
// The process logger is JSON on stdout:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
// The Logging middleware stores a logger with the request_id attached in each
// request context. Handlers retrieve it with FromContext:
//
//	logging.FromContext(r.Context()).Warn("upstream failed", slog.Any("error", err))
package logging
