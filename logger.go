package arches

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arches-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithIteration adds a selection iteration field to the logger.
func (l *Logger) WithIteration(it int) *Logger {
	return &Logger{
		Logger: l.Logger.With("iteration", it),
	}
}

// WithDeterminants adds a basis size field to the logger.
func (l *Logger) WithDeterminants(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("determinants", n),
	}
}

// WithOrbitals adds an orbital count field to the logger.
func (l *Logger) WithOrbitals(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("orbitals", n),
	}
}

// LogLoad logs an integral load operation.
func (l *Logger) LogLoad(ctx context.Context, path string, norb, nelec, chunks int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "integral load failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "integrals loaded",
			"path", path,
			"orbitals", norb,
			"electrons", nelec,
			"chunks", chunks,
		)
	}
}

// LogSelectionStep logs one scoring/diagonalization round.
func (l *Logger) LogSelectionStep(ctx context.Context, iteration, size, added, skipped int, energy, pt2 float64) {
	l.InfoContext(ctx, "selection step completed",
		"iteration", iteration,
		"determinants", size,
		"added", added,
		"pt2_skipped", skipped,
		"energy", energy,
		"pt2", pt2,
	)
}

// LogConvergence logs the outcome of an eigensolver run.
func (l *Logger) LogConvergence(ctx context.Context, iterations int, converged bool, residual float64) {
	if converged {
		l.DebugContext(ctx, "eigensolver converged",
			"iterations", iterations,
			"residual", residual,
		)
	} else {
		l.WarnContext(ctx, "eigensolver hit iteration cap",
			"iterations", iterations,
			"residual", residual,
		)
	}
}
