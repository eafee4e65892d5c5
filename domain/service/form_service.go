package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// formService runs the create/edit form lifecycle. A single in-flight lock
// covers submits and deletes; a second mutation arriving while one is still
// running is rejected, not queued.
type formService struct {
	api      outbound.AdminAPI
	state    inbound.StateService
	logger   outbound.Logger
	validate *validator.Validate

	submitMu sync.Mutex
}

func NewFormService(api outbound.AdminAPI, state inbound.StateService, logger outbound.Logger) inbound.FormService {
	return &formService{
		api:      api,
		state:    state,
		logger:   logger,
		validate: validator.New(),
	}
}

// CreateForm resets every field explicitly. Nothing survives from a previous
// open, whatever mode it was in.
func (f *formService) CreateForm() inbound.UserForm {
	return inbound.UserForm{
		ID:       "",
		Name:     "",
		Email:    "",
		Password: "",
		Role:     "user",
		Active:   "true",
	}
}

func (f *formService) EditForm(id int64) inbound.UserForm {
	user, ok := f.state.User(id)
	if !ok {
		// the record disappeared since the table was rendered
		f.logger.Debug("Edit target no longer present, opening create form", "userID", id)
		return f.CreateForm()
	}

	return inbound.UserForm{
		ID:       strconv.FormatInt(user.ID, 10),
		Name:     user.Name,
		Email:    user.Email,
		Password: "",
		Role:     string(user.Role),
		Active:   strconv.FormatBool(user.Active),
	}
}

// Submit validates in a fixed order and aborts on the first failure. Name and
// email are trimmed before any check; the password is taken verbatim. An empty
// password on update means "leave unchanged" and the key is omitted from the
// payload entirely.
func (f *formService) Submit(ctx context.Context, input inbound.FormInput) error {
	if !f.submitMu.TryLock() {
		return model.ErrSubmitInFlight
	}
	defer f.submitMu.Unlock()

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	password := input.Password
	role := model.UserRole(input.Role)
	if role == "" {
		role = model.RoleUser
	}
	isCreate := input.ID == ""

	if name == "" {
		return &model.FieldError{Field: "name", Message: "Name is required"}
	}
	if email == "" {
		return &model.FieldError{Field: "email", Message: "Email is required"}
	}
	if err := f.validate.Var(email, "email"); err != nil {
		return &model.FieldError{Field: "email", Message: "Invalid email address"}
	}
	if isCreate && password == "" {
		return &model.FieldError{Field: "password", Message: "Password is required"}
	}

	payload := model.UserPayload{
		Name:     name,
		Email:    email,
		Role:     role,
		Active:   input.Active == "true",
		Password: password,
	}

	if isCreate {
		created, err := f.api.CreateUser(ctx, payload)
		if err != nil {
			f.logger.Error("User creation failed", "email", email, "error", err)
			return err
		}
		f.logger.Info("User created", "userID", created.ID, "email", email)
	} else {
		id, err := strconv.ParseInt(input.ID, 10, 64)
		if err != nil {
			return &model.FieldError{Field: "id", Message: "Invalid user id"}
		}
		if _, err := f.api.UpdateUser(ctx, id, payload); err != nil {
			f.logger.Error("User update failed", "userID", id, "error", err)
			return err
		}
		f.logger.Info("User updated", "userID", id)
	}

	// The mutation landed; a failed follow-up reload must not read as a save
	// failure or the operator would resubmit. The table stays stale until the
	// next refresh.
	if err := f.state.LoadUsers(ctx); err != nil {
		f.logger.Warn("User list reload after save failed", "error", err)
	}
	return nil
}

// Delete removes the user and reloads the list. The row is never removed
// optimistically; until the reload lands the table shows the old sequence.
func (f *formService) Delete(ctx context.Context, id int64) error {
	if !f.submitMu.TryLock() {
		return model.ErrSubmitInFlight
	}
	defer f.submitMu.Unlock()

	if err := f.api.DeleteUser(ctx, id); err != nil {
		f.logger.Error("User deletion failed", "userID", id, "error", err)
		return err
	}
	f.logger.Info("User deleted", "userID", id)

	if err := f.state.LoadUsers(ctx); err != nil {
		f.logger.Warn("User list reload after delete failed", "error", err)
	}
	return nil
}
