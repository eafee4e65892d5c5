package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// stateService owns the single PanelState. Sequences are only ever replaced
// wholesale; statistics are recomputed from scratch after every replacement
// so the displayed counters can never drift from the data.
type stateService struct {
	api     outbound.AdminAPI
	logger  outbound.Logger
	metrics outbound.MetricsRecorder

	mu      sync.RWMutex
	state   model.PanelState
	stats   model.Stats
	version uint64

	// per-resource load generations; a completion that observes a newer
	// generation discards its result instead of overwriting fresher data
	usersGen  uint64
	loginsGen uint64

	watchersMu    sync.Mutex
	watchers      map[int]chan inbound.StateEvent
	nextWatcherID int
}

func NewStateService(api outbound.AdminAPI, logger outbound.Logger, metrics outbound.MetricsRecorder) inbound.StateService {
	return &stateService{
		api:     api,
		logger:  logger,
		metrics: metrics,
		state: model.PanelState{
			ActiveTab: model.TabDashboard,
		},
		watchers: make(map[int]chan inbound.StateEvent),
	}
}

func (s *stateService) LoadUsers(ctx context.Context) error {
	s.mu.Lock()
	s.usersGen++
	gen := s.usersGen
	s.mu.Unlock()

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		// previous sequence stays displayed
		s.logger.Error("Failed to load users", "error", err)
		s.metrics.RecordStateReload("users", "error")
		return err
	}

	s.mu.Lock()
	if gen < s.usersGen {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale user load", "generation", gen)
		s.metrics.RecordStateReload("users", "stale")
		return nil
	}
	s.state.Users = users
	s.recomputeStatsLocked()
	s.version++
	version := s.version
	s.mu.Unlock()

	s.logger.Debug("User list replaced", "count", len(users))
	s.metrics.RecordStateReload("users", "success")
	s.notify(inbound.StateEvent{Resource: "users", Version: version})
	return nil
}

func (s *stateService) LoadLoginHistory(ctx context.Context) error {
	s.mu.Lock()
	s.loginsGen++
	gen := s.loginsGen
	s.mu.Unlock()

	logins, err := s.api.ListLoginHistory(ctx)
	if err != nil {
		s.logger.Error("Failed to load login history", "error", err)
		s.metrics.RecordStateReload("logins", "error")
		return err
	}

	s.mu.Lock()
	if gen < s.loginsGen {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale login history load", "generation", gen)
		s.metrics.RecordStateReload("logins", "stale")
		return nil
	}
	s.state.Logins = logins
	s.recomputeStatsLocked()
	s.version++
	version := s.version
	s.mu.Unlock()

	s.logger.Debug("Login history replaced", "count", len(logins))
	s.metrics.RecordStateReload("logins", "success")
	s.notify(inbound.StateEvent{Resource: "logins", Version: version})
	return nil
}

// LoadAll fans out both loads and joins them. The two resources are
// independent; no ordering between them.
func (s *stateService) LoadAll(ctx context.Context) error {
	var wg sync.WaitGroup
	var usersErr, loginsErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		usersErr = s.LoadUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		loginsErr = s.LoadLoginHistory(ctx)
	}()
	wg.Wait()

	return errors.Join(usersErr, loginsErr)
}

func (s *stateService) Snapshot() model.StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, len(s.state.Users))
	copy(users, s.state.Users)
	logins := make([]model.LoginEntry, len(s.state.Logins))
	copy(logins, s.state.Logins)

	return model.StateSnapshot{
		CurrentUser: s.state.CurrentUser,
		Users:       users,
		Logins:      logins,
		ActiveTab:   s.state.ActiveTab,
		Stats:       s.stats,
		Version:     s.version,
	}
}

func (s *stateService) User(id int64) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.FindUser(s.state.Users, id)
}

func (s *stateService) SetSession(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentUser = session
}

func (s *stateService) SetActiveTab(tab model.TabID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveTab = tab
}

func (s *stateService) Watch() (<-chan inbound.StateEvent, func()) {
	s.watchersMu.Lock()
	id := s.nextWatcherID
	s.nextWatcherID++
	ch := make(chan inbound.StateEvent, 8)
	s.watchers[id] = ch
	s.watchersMu.Unlock()

	cancel := func() {
		s.watchersMu.Lock()
		if watcher, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(watcher)
		}
		s.watchersMu.Unlock()
	}

	return ch, cancel
}

// recomputeStatsLocked recomputes the dashboard counters from the current
// sequences. Caller holds s.mu.
func (s *stateService) recomputeStatsLocked() {
	today := time.Now().Format("2006-01-02")
	s.stats = model.ComputeStats(s.state.Users, s.state.Logins, today)
}

func (s *stateService) notify(event inbound.StateEvent) {
	s.watchersMu.Lock()
	defer s.watchersMu.Unlock()

	for _, watcher := range s.watchers {
		select {
		case watcher <- event:
		default:
			// slow watcher, drop rather than block state mutation
		}
	}
}
