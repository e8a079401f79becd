// Package sigctx derives contexts that are canceled on shutdown signals.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals that stop the storefront binaries.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// NotifyContext returns a copy of parent that is done on the first of [Signals].
// A nil parent means [context.Background].
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, Signals...)
}
