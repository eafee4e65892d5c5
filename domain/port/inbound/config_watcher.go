package inbound

import "context"

// ConfigWatcher tracks the config file and applies the reloadable subset of
// settings when it changes.
type ConfigWatcher interface {
	Start(ctx context.Context) error
	Stop() error
}
