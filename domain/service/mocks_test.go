package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/ajkula/GoAdminPanel/domain/model"
)

type mockAdminAPI struct {
	mock.Mock
}

func (m *mockAdminAPI) Me(ctx context.Context) (*model.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockAdminAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockAdminAPI) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockAdminAPI) CreateUser(ctx context.Context, payload model.UserPayload) (*model.User, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAdminAPI) UpdateUser(ctx context.Context, id int64, payload model.UserPayload) (*model.User, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAdminAPI) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAdminAPI) ListLoginHistory(ctx context.Context) ([]model.LoginEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoginEntry), args.Error(1)
}

// noopLogger keeps test output quiet.
type noopLogger struct{}

func (noopLogger) Error(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) UpdateLevel(logLvl string)     {}
func (noopLogger) Shutdown()                     {}

// recordingMetrics counts reload outcomes per resource.
type recordingMetrics struct {
	mu      sync.Mutex
	reloads map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{reloads: make(map[string]int)}
}

func (r *recordingMetrics) RecordStateReload(resource, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads[resource+"/"+outcome]++
}

func (r *recordingMetrics) count(resource, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reloads[resource+"/"+outcome]
}
