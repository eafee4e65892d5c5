package outbound

// PreferenceStore persists small operator preferences by key, the panel's
// analog of the browser's local storage. The only key in use today is
// "theme" with values "dark"/"light".
type PreferenceStore interface {
	// Get returns the stored value for key, or "" when unset.
	Get(key string) (string, error)

	// Set stores value under key.
	Set(key, value string) error
}
