// Package lifecycle exposes the process-wide shutdown flag. The health
// endpoint reports shutting-down while the server drains in-flight excuse
// requests.
package lifecycle

import "sync/atomic"

var shuttingDown atomic.Bool

// SetShuttingDown sets the shutdown flag. Called once SIGTERM/SIGINT is
// received so load balancers stop routing new traffic here.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown reports whether the process is draining.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}
