package outbound

// CredentialCache persists the remote session credential between restarts.
// Implementations must encrypt the credential at rest; it is equivalent to a
// logged-in session cookie.
type CredentialCache interface {
	// Save stores the credential, replacing any previous value.
	Save(credential string) error

	// Load returns the stored credential, or
	// model.ErrCredentialCacheNotFound when none was saved.
	Load() (string, error)

	// Clear removes the stored credential.
	Clear() error
}
