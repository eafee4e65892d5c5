package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajkula/GoAdminPanel/adapter/outbound/metrics"
	"github.com/ajkula/GoAdminPanel/config"
	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// error bodies larger than this are not worth parsing
const maxErrorBodySize = 64 * 1024

// Client talks to the remote admin API. The session credential lives in the
// cookie jar, so every request carries it automatically.
type Client struct {
	baseURL    string
	origin     *url.URL
	cookieName string
	httpClient *http.Client
	logger     outbound.Logger
}

func New(cfg *config.Config, logger outbound.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	baseURL := strings.TrimRight(cfg.API.BaseURL, "/")
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	return &Client{
		baseURL:    baseURL,
		origin:     origin,
		cookieName: cfg.API.SessionCookie,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.API.Timeout,
		},
		logger: logger,
	}, nil
}

// SetCredential seeds the session cookie for the API origin.
func (c *Client) SetCredential(credential string) {
	c.httpClient.Jar.SetCookies(c.origin, []*http.Cookie{{
		Name:  c.cookieName,
		Value: credential,
	}})
}

func (c *Client) Me(ctx context.Context) (*model.Session, error) {
	var session model.Session
	if err := c.do(ctx, "me", http.MethodGet, "/me", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/logout", nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, payload model.UserPayload) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "create_user", http.MethodPost, "/users", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, payload model.UserPayload) (*model.User, error) {
	var user model.User
	path := fmt.Sprintf("/users/%d", id)
	if err := c.do(ctx, "update_user", http.MethodPut, path, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/users/%d", id)
	return c.do(ctx, "delete_user", http.MethodDelete, path, nil, nil)
}

func (c *Client) ListLoginHistory(ctx context.Context) ([]model.LoginEntry, error) {
	var entries []model.LoginEntry
	if err := c.do(ctx, "list_login_history", http.MethodGet, "/login-history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// do runs one API call: encode body, dispatch, decode the response into out
// or the error body into an APIError. All decoding happens here; callers
// only ever see model types.
func (c *Client) do(ctx context.Context, operation, method, path string, body any, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(operation, "transport_error", time.Since(start).Seconds())
		c.logger.Error("API request failed", "operation", operation, "error", err)
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeErrorBody(resp)
		metrics.ObserveAPIRequest(operation, "api_error", time.Since(start).Seconds())
		c.logger.Warn("API request rejected",
			"operation", operation,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			metrics.ObserveAPIRequest(operation, "decode_error", time.Since(start).Seconds())
			return fmt.Errorf("failed to decode %s response: %w", operation, err)
		}
	}

	metrics.ObserveAPIRequest(operation, "success", time.Since(start).Seconds())
	return nil
}

// decodeErrorBody extracts the server's structured {error} message when the
// body carries one.
func decodeErrorBody(resp *http.Response) *model.APIError {
	apiErr := &model.APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return apiErr
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Error
	}

	return apiErr
}
