package testutil

import (
	"context"
	"time"
)

// TestContext creates a context with timeout for tests that talk to a
// database directly.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
