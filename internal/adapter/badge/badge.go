// Package badge provides cart count displays.
package badge

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/niksmo/storefront/internal/core/port"
)

var (
	_ port.Badge = LogBadge{}
	_ port.Badge = (*Counter)(nil)
)

// A LogBadge reports the count to the default logger.
type LogBadge struct{}

func (LogBadge) UpdateBadge(count int) {
	slog.Info("cart badge updated", "op", "LogBadge.UpdateBadge", "count", count)
}

// A Counter remembers the last displayed count.
type Counter struct {
	mu    sync.RWMutex
	count int
}

func (c *Counter) UpdateBadge(count int) {
	c.mu.Lock()
	c.count = count
	c.mu.Unlock()
}

func (c *Counter) Value() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// A WriterBadge prints the count as a header line.
type WriterBadge struct {
	W io.Writer
}

func (b WriterBadge) UpdateBadge(count int) {
	if b.W == nil {
		return
	}
	_, _ = fmt.Fprintf(b.W, "Cart (%d)\n", count)
}
