package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajkula/GoAdminPanel/config"
	"github.com/ajkula/GoAdminPanel/domain/model"
)

type testLogger struct{}

func (testLogger) Error(msg string, args ...any) {}
func (testLogger) Warn(msg string, args ...any)  {}
func (testLogger) Info(msg string, args ...any)  {}
func (testLogger) Debug(msg string, args ...any) {}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = server.URL + "/api"
	cfg.API.Timeout = 2 * time.Second
	cfg.API.SessionCookie = "session"

	client, err := New(cfg, testLogger{})
	require.NoError(t, err)
	client.SetCredential("secret-session-value")
	return client, server
}

func TestRequestsCarrySessionCookieAndRequestID(t *testing.T) {
	var gotCookie, gotRequestID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("session"); err == nil {
			gotCookie = cookie.Value
		}
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(model.Session{ID: 1, Name: "Root", Role: model.RoleAdmin})
	}))

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret-session-value", gotCookie)
	assert.NotEmpty(t, gotRequestID)
}

func TestMeDecodesSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/me", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "name": "Root", "email": "root@example.com", "role": "admin",
		})
	}))

	session, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.ID)
	assert.True(t, session.IsAdmin())
}

func TestListUsersDecodesServerOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 2, "name": "Bob", "email": "bob@x.com", "role": "user", "active": true, "created_at": "2026-08-01T10:00:00"},
			{"id": 1, "name": "Alice", "email": "alice@x.com", "role": "admin", "active": false, "created_at": "2026-07-01T10:00:00"},
		})
	}))

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[0].ID, "server order is preserved")
	assert.Equal(t, "2026-08-01T10:00:00", users[0].CreatedAt)
}

func TestCreateUserSendsPayload(t *testing.T) {
	var got model.UserPayload
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.User{ID: 10, Name: got.Name})
	}))

	created, err := client.CreateUser(context.Background(), model.UserPayload{
		Name: "Carol", Email: "carol@x.com", Role: model.RoleUser, Active: true, Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, "pw", got.Password)
}

func TestUpdateUserOmitsPasswordKeyWhenEmpty(t *testing.T) {
	var raw map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(model.User{ID: 5})
	}))

	_, err := client.UpdateUser(context.Background(), 5, model.UserPayload{
		Name: "Eve", Email: "eve@x.com", Role: model.RoleAdmin, Active: true,
	})
	require.NoError(t, err)
	_, present := raw["password"]
	assert.False(t, present, "empty password must not be serialized at all")
}

func TestErrorBodyBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Email já cadastrado"})
	}))

	_, err := client.CreateUser(context.Background(), model.UserPayload{Name: "X"})
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email já cadastrado", apiErr.Message)
}

func TestUnparseableErrorBodyKeepsStatusOnly(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>Internal Server Error</html>"))
	}))

	err := client.DeleteUser(context.Background(), 1)
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestTransportFailureIsNotAnAPIError(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.ListUsers(context.Background())
	require.Error(t, err)
	var apiErr *model.APIError
	assert.False(t, errors.As(err, &apiErr))
}
