package inbound

import (
	"context"

	"github.com/ajkula/GoAdminPanel/domain/model"
)

// SessionGuard verifies the panel operator is an authenticated administrator
// before anything else runs. A failed verification is terminal for the
// current operation; there is no retry.
type SessionGuard interface {
	// Verify always hits the identity endpoint. It returns
	// model.ErrUnauthenticated when the credential is missing or rejected,
	// and model.ErrNotAdmin for an authenticated non-admin.
	Verify(ctx context.Context) (*model.Session, error)

	// Current returns the cached session, re-verifying once the cache TTL
	// has elapsed.
	Current(ctx context.Context) (*model.Session, error)

	// Logout invalidates the remote session. The redirect to the login page
	// happens regardless of the call's outcome.
	Logout(ctx context.Context) error
}
