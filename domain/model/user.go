package model

// User is a user record as returned by the remote API. Passwords are
// write-only and never present in read responses.
// CreatedAt is carried verbatim as the API's ISO 8601 string; date
// bucketing is done by string prefix, not by parsing.
type User struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Active    bool     `json:"active"`
	CreatedAt string   `json:"created_at"`
}

// UserPayload is the outgoing body for create/update requests.
// Password is omitted entirely when empty: a missing key means
// "do not change password" to the server.
type UserPayload struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	Active   bool     `json:"active"`
	Password string   `json:"password,omitempty"`
}

// FindUser looks a user up by id in a server-ordered sequence.
func FindUser(users []User, id int64) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
