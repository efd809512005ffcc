// Package logger configures structured JSON logging with log/slog and carries
// request- and run-scoped loggers through context.Context.
package logger
