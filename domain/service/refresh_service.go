package service

import (
	"context"
	"sync"
	"time"

	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// refreshService reloads both state sequences on a fixed interval so the
// panel keeps tracking the remote API between operator actions. A failed
// cycle is logged and skipped; the next tick tries again.
type refreshService struct {
	state  inbound.StateService
	logger outbound.Logger

	mu         sync.Mutex
	interval   time.Duration
	intervalCh chan time.Duration
	cancel     context.CancelFunc
	running    bool
}

func NewRefreshService(state inbound.StateService, logger outbound.Logger, interval time.Duration) inbound.RefreshService {
	return &refreshService{
		state:      state,
		logger:     logger,
		interval:   interval,
		intervalCh: make(chan time.Duration, 1),
	}
}

func (s *refreshService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn("Refresh service already running")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.logger.Info("Starting background refresh", "interval", s.interval)
	go s.run(runCtx)
	return nil
}

func (s *refreshService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancel()
	s.running = false
	s.logger.Info("Background refresh stopped")
	return nil
}

// UpdateInterval reschedules the ticker. Called on config hot reload.
func (s *refreshService) UpdateInterval(interval time.Duration) {
	s.mu.Lock()
	if interval == s.interval || interval <= 0 {
		s.mu.Unlock()
		return
	}
	s.interval = interval
	s.mu.Unlock()

	select {
	case s.intervalCh <- interval:
	default:
	}
}

func (s *refreshService) run(ctx context.Context) {
	s.mu.Lock()
	ticker := time.NewTicker(s.interval)
	s.mu.Unlock()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case interval := <-s.intervalCh:
			ticker.Reset(interval)
			s.logger.Info("Refresh interval updated", "interval", interval)

		case <-ticker.C:
			cycleCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := s.state.LoadAll(cycleCtx); err != nil {
				s.logger.Warn("Background refresh cycle failed", "error", err)
			}
			cancel()
		}
	}
}
