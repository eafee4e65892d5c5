package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ajkula/GoAdminPanel/domain/model"
)

func adminSession() *model.Session {
	return &model.Session{ID: 1, Name: "Root", Email: "root@example.com", Role: model.RoleAdmin}
}

func TestVerifyAcceptsAdmin(t *testing.T) {
	api := new(mockAdminAPI)
	guard := NewSessionGuardService(api, noopLogger{}, time.Minute)

	api.On("Me", mock.Anything).Return(adminSession(), nil).Once()

	session, err := guard.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", session.Email)
}

func TestVerifyRejectsNonAdmin(t *testing.T) {
	api := new(mockAdminAPI)
	guard := NewSessionGuardService(api, noopLogger{}, time.Minute)

	api.On("Me", mock.Anything).Return(&model.Session{
		ID: 2, Name: "Joe", Email: "joe@example.com", Role: model.RoleUser,
	}, nil).Once()

	_, err := guard.Verify(context.Background())
	assert.ErrorIs(t, err, model.ErrNotAdmin)
}

func TestVerifyMapsAPIFailuresToUnauthenticated(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rejected credential", &model.APIError{StatusCode: 401, Message: "Não autenticado"}},
		{"transport failure", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mockAdminAPI)
			guard := NewSessionGuardService(api, noopLogger{}, time.Minute)
			api.On("Me", mock.Anything).Return(nil, tt.err).Once()

			_, err := guard.Verify(context.Background())
			assert.ErrorIs(t, err, model.ErrUnauthenticated)
		})
	}
}

func TestCurrentServesCachedSessionWithinTTL(t *testing.T) {
	api := new(mockAdminAPI)
	guard := NewSessionGuardService(api, noopLogger{}, time.Minute)

	api.On("Me", mock.Anything).Return(adminSession(), nil).Once()

	_, err := guard.Verify(context.Background())
	require.NoError(t, err)

	// within the TTL no second identity call happens
	session, err := guard.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Root", session.Name)
	api.AssertNumberOfCalls(t, "Me", 1)
}

func TestCurrentReverifiesAfterTTL(t *testing.T) {
	api := new(mockAdminAPI)
	guard := NewSessionGuardService(api, noopLogger{}, 10*time.Millisecond)

	api.On("Me", mock.Anything).Return(adminSession(), nil).Twice()

	_, err := guard.Verify(context.Background())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = guard.Current(context.Background())
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "Me", 2)
}

func TestLogoutClearsCacheBeforeRemoteCall(t *testing.T) {
	api := new(mockAdminAPI)
	guard := NewSessionGuardService(api, noopLogger{}, time.Minute)

	api.On("Me", mock.Anything).Return(adminSession(), nil)
	api.On("Logout", mock.Anything).Return(errors.New("api down")).Once()

	_, err := guard.Verify(context.Background())
	require.NoError(t, err)

	// the remote failure is reported but the local session is gone
	require.Error(t, guard.Logout(context.Background()))

	_, err = guard.Current(context.Background())
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "Me", 2)
}
