// Package logging defines the structured-logging interface used across the
// project, decoupling callers from the concrete backend.
package logging

import "context"

// Logger is a context-aware structured logger. The variadic args are
// alternating key/value pairs, as in:
//
//	log.Info(ctx, "starting server", "addr", addr)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
