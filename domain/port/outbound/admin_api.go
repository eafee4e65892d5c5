package outbound

import (
	"context"

	"github.com/ajkula/GoAdminPanel/domain/model"
)

// AdminAPI is the remote REST API the panel consumes. Implementations carry
// the session credential on every call and decode responses into model types
// at the boundary; raw JSON never crosses into the domain.
type AdminAPI interface {
	// Me fetches the identity behind the session credential.
	Me(ctx context.Context) (*model.Session, error)

	// Logout invalidates the remote session.
	Logout(ctx context.Context) error

	// ListUsers fetches all user records in server order.
	ListUsers(ctx context.Context) ([]model.User, error)

	// CreateUser creates a user record.
	CreateUser(ctx context.Context, payload model.UserPayload) (*model.User, error)

	// UpdateUser updates a user record by id.
	UpdateUser(ctx context.Context, id int64, payload model.UserPayload) (*model.User, error)

	// DeleteUser removes a user record by id.
	DeleteUser(ctx context.Context, id int64) error

	// ListLoginHistory fetches login-history entries, most-recent-first.
	ListLoginHistory(ctx context.Context) ([]model.LoginEntry, error)
}
