package inbound

import (
	"context"

	"github.com/ajkula/GoAdminPanel/domain/model"
)

// StateEvent announces that a state sequence was replaced. Watchers use it
// to trigger a render pass.
type StateEvent struct {
	Resource string `json:"resource"` // "users" or "logins"
	Version  uint64 `json:"version"`
}

// StateService owns the application state: it orchestrates fetches against
// the remote API, replaces the stored sequences wholesale and recomputes the
// dashboard statistics. Load failures after init are non-fatal; the previous
// sequence stays displayed.
type StateService interface {
	// LoadUsers fetches the user list and replaces the stored sequence.
	LoadUsers(ctx context.Context) error

	// LoadLoginHistory fetches the login history and replaces the stored
	// sequence.
	LoadLoginHistory(ctx context.Context) error

	// LoadAll runs both loads concurrently and waits for both. Used once at
	// startup before the panel is revealed, and by the background refresh.
	LoadAll(ctx context.Context) error

	// Snapshot returns an immutable copy of the current state for rendering.
	Snapshot() model.StateSnapshot

	// User resolves a user by id from the current sequence.
	User(id int64) (model.User, bool)

	// SetSession installs the verified operator session.
	SetSession(session *model.Session)

	// SetActiveTab records the active tab.
	SetActiveTab(tab model.TabID)

	// Watch subscribes to state replacement events. The returned func
	// cancels the subscription.
	Watch() (<-chan StateEvent, func())
}
