package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// CloseLogged closes c and logs a failure against resource. Nil closers are ignored.
func CloseLogged(c io.Closer, logger *slog.Logger, resource string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		LogError(logger, "close failed", err, slog.String("resource", resource))
	}
}

// CloseOnReturn is deferred by functions with a named error result. A close failure is
// logged, and becomes the function's error only when the function itself succeeded.
func CloseOnReturn(errp *error, closeFn func() error, logger *slog.Logger, resource string) {
	if closeFn == nil {
		return
	}
	err := closeFn()
	if err == nil {
		return
	}
	LogError(logger, "close failed", err, slog.String("resource", resource))
	if *errp == nil {
		*errp = fmt.Errorf("closing %s: %w", resource, err)
	}
}
