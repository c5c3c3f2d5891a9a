// Package notify decides when snowfall alerts fire and delivers them to the
// local desktop.
package notify

import "context"

// Notifier delivers a local notification. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}
