package service

import (
	"context"
	"sync"
	"time"

	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

type sessionGuardService struct {
	api      outbound.AdminAPI
	logger   outbound.Logger
	cacheTTL time.Duration

	mu         sync.Mutex
	session    *model.Session
	verifiedAt time.Time
}

func NewSessionGuardService(
	api outbound.AdminAPI,
	logger outbound.Logger,
	cacheTTL time.Duration,
) inbound.SessionGuard {
	return &sessionGuardService{
		api:      api,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Verify hits the identity endpoint and requires the admin role. Any
// failure is terminal for the caller; the guard never retries.
func (s *sessionGuardService) Verify(ctx context.Context) (*model.Session, error) {
	session, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Warn("Identity check failed", "error", err)
		// transport failures count as unauthenticated too: the page load
		// equivalent is a redirect to login, not an error screen
		return nil, model.ErrUnauthenticated
	}

	if !session.IsAdmin() {
		s.logger.Warn("Access denied, admin role required",
			"email", session.Email,
			"role", session.Role,
		)
		return nil, model.ErrNotAdmin
	}

	s.mu.Lock()
	s.session = session
	s.verifiedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("Administrator authenticated", "name", session.Name)
	return session, nil
}

// Current serves the cached session until the TTL elapses, then re-verifies.
func (s *sessionGuardService) Current(ctx context.Context) (*model.Session, error) {
	s.mu.Lock()
	session := s.session
	fresh := session != nil && time.Since(s.verifiedAt) < s.cacheTTL
	s.mu.Unlock()

	if fresh {
		return session, nil
	}

	return s.Verify(ctx)
}

func (s *sessionGuardService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = nil
	s.verifiedAt = time.Time{}
	s.mu.Unlock()

	if err := s.api.Logout(ctx); err != nil {
		// the caller redirects to login whatever this returned
		s.logger.Warn("Logout call failed", "error", err)
		return err
	}

	s.logger.Info("Operator logged out")
	return nil
}
