package contxt

import (
	"context"
	"os"
	"time"
)

// NewContext bounds work started from a long lived loop, such as a cron job,
// that has no request to inherit a deadline from. Setting CONTEXT_TEST drops
// the deadline so stepping through in a debugger does not time out.
func NewContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if os.Getenv("CONTEXT_TEST") != "" {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
