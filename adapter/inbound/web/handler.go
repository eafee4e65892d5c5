package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ajkula/GoAdminPanel/config"
	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

const themeKey = "theme"

// Handler serves the panel pages. All routes except /health and the static
// assets sit behind the session guard.
type Handler struct {
	guard  inbound.SessionGuard
	state  inbound.StateService
	forms  inbound.FormService
	prefs  outbound.PreferenceStore
	logger outbound.Logger

	loginURL   string
	landingURL string
	templates  map[string]*template.Template
}

func NewHandler(
	guard inbound.SessionGuard,
	state inbound.StateService,
	forms inbound.FormService,
	prefs outbound.PreferenceStore,
	logger outbound.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		guard:      guard,
		state:      state,
		forms:      forms,
		prefs:      prefs,
		logger:     logger,
		loginURL:   cfg.API.LoginURL,
		landingURL: cfg.API.LandingURL,
		templates:  loadTemplates(),
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.Use(h.requestMiddleware)

	router.HandleFunc("/health", h.healthCheck).Methods("GET")
	router.PathPrefix("/static/").Handler(http.FileServer(http.FS(staticFS)))

	panel := router.PathPrefix("/").Subrouter()
	panel.Use(h.guardMiddleware)

	panel.HandleFunc("/", h.handleRoot).Methods("GET")
	panel.HandleFunc("/dashboard", h.handleDashboard).Methods("GET")
	panel.HandleFunc("/users", h.handleUsers).Methods("GET")
	panel.HandleFunc("/users/new", h.handleNewUser).Methods("GET")
	panel.HandleFunc("/users/save", h.handleSaveUser).Methods("POST")
	panel.HandleFunc("/users/{id:[0-9]+}/edit", h.handleEditUser).Methods("GET")
	panel.HandleFunc("/users/{id:[0-9]+}/delete", h.handleConfirmDelete).Methods("GET")
	panel.HandleFunc("/users/{id:[0-9]+}/delete", h.handleDeleteUser).Methods("POST")
	panel.HandleFunc("/logins", h.handleLogins).Methods("GET")
	panel.HandleFunc("/logout", h.handleLogout).Methods("POST")
	panel.HandleFunc("/theme", h.handleTheme).Methods("POST")
}

// pageData is what every template set receives.
type pageData struct {
	Title       string
	ActiveTab   model.TabID
	Theme       string
	CurrentUser *model.Session

	Stats        model.Stats
	Users        []model.User
	Logins       []model.LoginEntry
	RecentLogins []model.LoginEntry

	Form         inbound.UserForm
	ErrorField   string
	DeleteTarget model.User

	Flash string
	Error string
}

func (h *Handler) pageData(r *http.Request, title string, tab model.TabID) pageData {
	theme, err := h.prefs.Get(themeKey)
	if err != nil || theme == "" {
		theme = "light"
	}

	return pageData{
		Title:       title,
		ActiveTab:   tab,
		Theme:       theme,
		CurrentUser: sessionFromContext(r.Context()),
	}
}

func (h *Handler) render(w http.ResponseWriter, page string, data pageData) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.logger.Error("Unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// render to a buffer so a template failure never emits a half page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("Template execution failed", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.state.SetActiveTab(model.TabDashboard)
	snapshot := h.state.Snapshot()

	data := h.pageData(r, "Dashboard", model.TabDashboard)
	data.Stats = snapshot.Stats
	data.RecentLogins = snapshot.Logins
	if len(data.RecentLogins) > 5 {
		data.RecentLogins = data.RecentLogins[:5]
	}

	h.render(w, "dashboard", data)
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	h.state.SetActiveTab(model.TabUsers)
	snapshot := h.state.Snapshot()

	data := h.pageData(r, "Users", model.TabUsers)
	data.Users = snapshot.Users
	switch {
	case r.URL.Query().Get("saved") == "1":
		data.Flash = "User saved"
	case r.URL.Query().Get("deleted") == "1":
		data.Flash = "User deleted"
	}

	h.render(w, "users", data)
}

func (h *Handler) handleLogins(w http.ResponseWriter, r *http.Request) {
	h.state.SetActiveTab(model.TabLogins)
	snapshot := h.state.Snapshot()

	data := h.pageData(r, "Login History", model.TabLogins)
	data.Logins = snapshot.Logins

	h.render(w, "logins", data)
}

func (h *Handler) handleNewUser(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, "New user", model.TabUsers)
	data.Form = h.forms.CreateForm()
	h.render(w, "user_form", data)
}

func (h *Handler) handleEditUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	data := h.pageData(r, "Edit user", model.TabUsers)
	data.Form = h.forms.EditForm(id)
	h.render(w, "user_form", data)
}

func (h *Handler) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	input := inbound.FormInput{
		ID:       r.PostFormValue("id"),
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
		Active:   r.PostFormValue("active"),
	}

	err := h.forms.Submit(r.Context(), input)
	if err == nil {
		http.Redirect(w, r, "/users?saved=1", http.StatusSeeOther)
		return
	}

	title := "New user"
	if input.ID != "" {
		title = "Edit user"
	}
	data := h.pageData(r, title, model.TabUsers)
	// re-render with the submitted values so nothing typed is lost
	data.Form = inbound.UserForm{
		ID:     input.ID,
		Name:   input.Name,
		Email:  input.Email,
		Role:   input.Role,
		Active: input.Active,
	}

	var fieldErr *model.FieldError
	if errors.As(err, &fieldErr) {
		data.ErrorField = fieldErr.Field
		data.Error = fieldErr.Message
	} else {
		data.Error = submitErrorMessage(err)
	}

	h.render(w, "user_form", data)
}

func (h *Handler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	user, ok := h.state.User(id)
	if !ok {
		// already gone, nothing to confirm
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	data := h.pageData(r, "Delete user", model.TabUsers)
	data.DeleteTarget = user
	h.render(w, "confirm_delete", data)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	if err := h.forms.Delete(r.Context(), id); err != nil {
		snapshot := h.state.Snapshot()
		data := h.pageData(r, "Users", model.TabUsers)
		data.Users = snapshot.Users
		data.Error = submitErrorMessage(err)
		h.render(w, "users", data)
		return
	}

	http.Redirect(w, r, "/users?deleted=1", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// the redirect happens whatever the remote call returned
	if err := h.guard.Logout(r.Context()); err != nil {
		h.logger.Warn("Remote logout failed", "error", err)
	}
	http.Redirect(w, r, h.loginURL, http.StatusSeeOther)
}

func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	current, _ := h.prefs.Get(themeKey)
	next := "dark"
	if current == "dark" {
		next = "light"
	}
	if err := h.prefs.Set(themeKey, next); err != nil {
		h.logger.Warn("Failed to persist theme preference", "error", err)
	}

	target := r.Header.Get("Referer")
	if target == "" {
		target = "/dashboard"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// submitErrorMessage maps a mutation failure to the banner text. The server's
// own message wins when it sent one; otherwise the status code picks a
// generic line, and anything unrecognized falls through to the last resort.
func submitErrorMessage(err error) string {
	if errors.Is(err, model.ErrSubmitInFlight) {
		return "Another change is still being saved, try again"
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch apiErr.StatusCode {
		case http.StatusBadRequest:
			return "The submitted data was rejected"
		case http.StatusUnauthorized:
			return "Your session has expired, sign in again"
		case http.StatusInternalServerError:
			return "The server hit an internal error"
		}
		return "Unknown error"
	}

	if err != nil {
		return "Could not reach the server"
	}
	return "Unknown error"
}
