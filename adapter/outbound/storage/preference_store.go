package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// filePreferenceStore keeps operator preferences in a small JSON file, the
// panel's stand-in for the browser's local storage.
type filePreferenceStore struct {
	filePath string
	logger   outbound.Logger
	mu       sync.Mutex
}

func NewFilePreferenceStore(filePath string, logger outbound.Logger) (outbound.PreferenceStore, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	return &filePreferenceStore{
		filePath: filePath,
		logger:   logger,
	}, nil
}

func (s *filePreferenceStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return "", err
	}
	return prefs[key], nil
}

func (s *filePreferenceStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return err
	}

	prefs[key] = value

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0600)
}

func (s *filePreferenceStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	prefs := map[string]string{}
	if err := json.Unmarshal(data, &prefs); err != nil {
		// unreadable preferences are not fatal, start over
		s.logger.Warn("Preferences file corrupted, resetting", "path", s.filePath)
		return map[string]string{}, nil
	}

	return prefs, nil
}
