// Package logger provides structured logging for the application.
//
// It builds on log/slog with a JSON handler whose level comes from
// configuration, and carries request-scoped loggers through context so
// that stores and services log with the trace id of the request that
// invoked them.
package logger
