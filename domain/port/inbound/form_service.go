package inbound

import (
	"context"
)

// UserForm is the set of field values a rendered form carries. Every field
// is force-assigned on open; Active is serialized "true"/"false" to match
// the select control.
type UserForm struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
	Active   string
}

// FormInput is the raw submitted field set, before any normalization.
type FormInput struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
	Active   string
}

// FormService owns the create/edit form lifecycle: opening with explicit
// field resets, the validate/normalize/submit pipeline, and deletes.
type FormService interface {
	// CreateForm returns a pristine create form. Fields are explicitly
	// reset every time; nothing is carried over from a previous open.
	CreateForm() UserForm

	// EditForm populates a form from the referenced user. A stale id (record
	// no longer present) falls back to a pristine create form.
	EditForm(id int64) UserForm

	// Submit runs the validation pipeline and dispatches the create or
	// update call. A *model.FieldError means a client-side rejection; a
	// *model.APIError carries the server's message. On success the user
	// list is reloaded wholesale; a reload failure is logged, not returned.
	Submit(ctx context.Context, input FormInput) error

	// Delete removes a user after the web layer has collected confirmation,
	// then reloads the user list wholesale. The table is never updated
	// optimistically.
	Delete(ctx context.Context, id int64) error
}
