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
	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
)

func newFormFixture(t *testing.T) (*mockAdminAPI, inbound.StateService, inbound.FormService) {
	t.Helper()
	api := new(mockAdminAPI)
	state := NewStateService(api, noopLogger{}, newRecordingMetrics())
	forms := NewFormService(api, state, noopLogger{})
	return api, state, forms
}

func validCreateInput() inbound.FormInput {
	return inbound.FormInput{
		Name:     "Dave",
		Email:    "dave@example.com",
		Password: "hunter2",
		Role:     "user",
		Active:   "true",
	}
}

func TestCreateFormResetsEveryField(t *testing.T) {
	_, _, forms := newFormFixture(t)

	form := forms.CreateForm()
	assert.Equal(t, inbound.UserForm{
		ID:       "",
		Name:     "",
		Email:    "",
		Password: "",
		Role:     "user",
		Active:   "true",
	}, form)
}

func TestEditFormPopulatesFromUser(t *testing.T) {
	api, state, forms := newFormFixture(t)

	api.On("ListUsers", mock.Anything).Return([]model.User{
		{ID: 5, Name: "Eve", Email: "eve@example.com", Role: model.RoleAdmin, Active: false},
	}, nil)
	require.NoError(t, state.LoadUsers(context.Background()))

	form := forms.EditForm(5)
	assert.Equal(t, "5", form.ID)
	assert.Equal(t, "Eve", form.Name)
	assert.Equal(t, "eve@example.com", form.Email)
	assert.Equal(t, "", form.Password, "password must never be prefilled")
	assert.Equal(t, "admin", form.Role)
	assert.Equal(t, "false", form.Active)
}

func TestEditFormStaleIDFallsBackToCreate(t *testing.T) {
	_, _, forms := newFormFixture(t)

	form := forms.EditForm(42)
	assert.Equal(t, forms.CreateForm(), form)
}

func TestSubmitValidatesInOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*inbound.FormInput)
		wantField string
	}{
		{"missing name", func(in *inbound.FormInput) { in.Name = "   " }, "name"},
		{"missing email", func(in *inbound.FormInput) { in.Email = "" }, "email"},
		{"bad email format", func(in *inbound.FormInput) { in.Email = "not-an-email" }, "email"},
		{"missing password on create", func(in *inbound.FormInput) { in.Password = "" }, "password"},
		{"name checked before email", func(in *inbound.FormInput) { in.Name = ""; in.Email = "" }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _, forms := newFormFixture(t)

			input := validCreateInput()
			tt.mutate(&input)

			err := forms.Submit(context.Background(), input)
			var fieldErr *model.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.wantField, fieldErr.Field)
			api.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitCreateTrimsAndDispatches(t *testing.T) {
	api, _, forms := newFormFixture(t)

	api.On("CreateUser", mock.Anything, mock.MatchedBy(func(p model.UserPayload) bool {
		return p.Name == "Frank" &&
			p.Email == "frank@example.com" &&
			p.Password == "  spaced pass " &&
			p.Role == model.RoleUser &&
			p.Active
	})).Return(&model.User{ID: 9}, nil).Once()
	api.On("ListUsers", mock.Anything).Return([]model.User{{ID: 9}}, nil).Once()

	err := forms.Submit(context.Background(), inbound.FormInput{
		ID:       "",
		Name:     "  Frank  ",
		Email:    " frank@example.com ",
		Password: "  spaced pass ",
		Role:     "",
		Active:   "true",
	})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestSubmitUpdateOmitsEmptyPassword(t *testing.T) {
	api, _, forms := newFormFixture(t)

	api.On("UpdateUser", mock.Anything, int64(5), mock.MatchedBy(func(p model.UserPayload) bool {
		return p.Password == "" && p.Name == "Eve" && !p.Active
	})).Return(&model.User{ID: 5}, nil).Once()
	api.On("ListUsers", mock.Anything).Return([]model.User{{ID: 5}}, nil).Once()

	err := forms.Submit(context.Background(), inbound.FormInput{
		ID:     "5",
		Name:   "Eve",
		Email:  "eve@example.com",
		Role:   "admin",
		Active: "false",
	})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestSubmitSucceedsWhenReloadFails(t *testing.T) {
	api, state, forms := newFormFixture(t)

	api.On("CreateUser", mock.Anything, mock.Anything).Return(&model.User{ID: 9}, nil).Once()
	api.On("ListUsers", mock.Anything).Return(nil, errors.New("network blip")).Once()

	err := forms.Submit(context.Background(), validCreateInput())
	require.NoError(t, err, "the user was created; a reload failure must not read as a save failure")
	assert.Empty(t, state.Snapshot().Users, "table stays stale until the next refresh")
	api.AssertExpectations(t)
}

func TestSubmitPassesAPIErrorThrough(t *testing.T) {
	api, _, forms := newFormFixture(t)

	apiErr := &model.APIError{StatusCode: 400, Message: "Email already in use"}
	api.On("CreateUser", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	err := forms.Submit(context.Background(), validCreateInput())
	var got *model.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "Email already in use", got.Message)
	api.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestSubmitRejectsConcurrentMutation(t *testing.T) {
	api, _, forms := newFormFixture(t)

	release := make(chan struct{})
	started := make(chan struct{})
	api.On("CreateUser", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&model.User{ID: 1}, nil).Once()
	api.On("ListUsers", mock.Anything).Return([]model.User{}, nil).Once()

	done := make(chan error, 1)
	go func() {
		done <- forms.Submit(context.Background(), validCreateInput())
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first submission never started")
	}

	err := forms.Submit(context.Background(), validCreateInput())
	assert.ErrorIs(t, err, model.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestDeleteReloadsAfterRemoval(t *testing.T) {
	api, state, forms := newFormFixture(t)

	api.On("ListUsers", mock.Anything).Return([]model.User{{ID: 1}, {ID: 2}}, nil).Once()
	require.NoError(t, state.LoadUsers(context.Background()))

	api.On("DeleteUser", mock.Anything, int64(1)).Return(nil).Once()
	api.On("ListUsers", mock.Anything).Return([]model.User{{ID: 2}}, nil).Once()

	require.NoError(t, forms.Delete(context.Background(), 1))

	snapshot := state.Snapshot()
	require.Len(t, snapshot.Users, 1)
	assert.Equal(t, int64(2), snapshot.Users[0].ID)
	api.AssertExpectations(t)
}

func TestDeleteSucceedsWhenReloadFails(t *testing.T) {
	api, _, forms := newFormFixture(t)

	api.On("DeleteUser", mock.Anything, int64(3)).Return(nil).Once()
	api.On("ListUsers", mock.Anything).Return(nil, errors.New("network blip")).Once()

	require.NoError(t, forms.Delete(context.Background(), 3))
	api.AssertExpectations(t)
}

func TestDeleteFailureKeepsSequence(t *testing.T) {
	api, state, forms := newFormFixture(t)

	api.On("ListUsers", mock.Anything).Return([]model.User{{ID: 1}}, nil).Once()
	require.NoError(t, state.LoadUsers(context.Background()))

	api.On("DeleteUser", mock.Anything, int64(1)).Return(errors.New("boom")).Once()

	require.Error(t, forms.Delete(context.Background(), 1))
	assert.Len(t, state.Snapshot().Users, 1)
}
