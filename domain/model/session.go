package model

import "unicode"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Session is the authenticated identity of the panel operator.
// It is owned by the session guard and read-only everywhere else.
type Session struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Initial returns the uppercase first letter of the operator name,
// used for the avatar badge.
func (s *Session) Initial() string {
	for _, r := range s.Name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}
