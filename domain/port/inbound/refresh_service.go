package inbound

import (
	"context"
	"time"
)

// RefreshService reloads the panel state on a fixed interval so the tables
// keep tracking the remote API between operator actions.
type RefreshService interface {
	Start(ctx context.Context) error
	Stop() error

	// UpdateInterval reschedules the ticker. Non-positive or unchanged
	// values are ignored.
	UpdateInterval(interval time.Duration)
}
