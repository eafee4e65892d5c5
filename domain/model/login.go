package model

// LoginEntry is one login-history record. The sequence is read-only and
// append-only from the panel's perspective, most-recent-first.
type LoginEntry struct {
	Email     string `json:"email"`
	IPAddress string `json:"ip_address,omitempty"`
	Success   bool   `json:"success"`
	CreatedAt string `json:"created_at"`
}
