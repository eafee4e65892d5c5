package web

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ajkula/GoAdminPanel/adapter/outbound/metrics"
	"github.com/ajkula/GoAdminPanel/domain/model"
)

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	sessionKey   contextKey = "session"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack keeps WebSocket upgrades working through the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// requestMiddleware tags every request with an id, logs it and feeds the
// request counters.
func (h *Handler) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r.WithContext(ctx))

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.PanelRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()

		h.logger.Debug("Panel request",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start))
	})
}

// guardMiddleware enforces the admin session on every panel page. An
// unauthenticated operator goes to the login page; an authenticated
// non-admin goes to the regular landing page.
func (h *Handler) guardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.guard.Current(r.Context())
		if err != nil {
			if errors.Is(err, model.ErrNotAdmin) {
				h.logger.Warn("Non-admin operator rejected", "path", r.URL.Path)
				http.Redirect(w, r, h.landingURL, http.StatusSeeOther)
				return
			}
			h.logger.Info("Unauthenticated request, redirecting to login", "path", r.URL.Path)
			http.Redirect(w, r, h.loginURL, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) *model.Session {
	if session, ok := ctx.Value(sessionKey).(*model.Session); ok {
		return session
	}
	return nil
}
