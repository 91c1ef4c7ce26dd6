package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/channel-scout/internal/modules/settings/domain"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/oops"
)

// FileStorage implements settings.Repository using file system
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based settings repository
func NewFileStorage(basePath string) (Repository, error) {
	settingsPath := filepath.Join(basePath, "users")
	if err := os.MkdirAll(settingsPath, 0700); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create users directory").Wrap(err)
	}

	return &FileStorage{basePath: settingsPath}, nil
}

func (s *FileStorage) path(userID int64) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%d.json", userID))
}

func (s *FileStorage) SaveSettings(settings *domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return oops.With("user_id", settings.UserID, "context", "failed to marshal settings").Wrap(err)
	}

	// Settings carry the user's API key
	return os.WriteFile(s.path(settings.UserID), data, 0600)
}

func (s *FileStorage) GetSettings(userID int64) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oops.With("user_id", userID).Wrap(errors.ErrUserNotFound)
		}
		return nil, oops.With("user_id", userID, "context", "failed to read settings").Wrap(err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, oops.With("user_id", userID, "context", "failed to unmarshal settings").Wrap(err)
	}

	return &settings, nil
}

func (s *FileStorage) GetAllSettings() ([]*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("directory", s.basePath, "context", "failed to read users directory").Wrap(err)
	}

	var all []*domain.Settings
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			continue
		}

		var settings domain.Settings
		if err := json.Unmarshal(data, &settings); err != nil {
			continue
		}

		all = append(all, &settings)
	}

	return all, nil
}

func (s *FileStorage) DeleteSettings(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(userID)); err != nil && !os.IsNotExist(err) {
		return oops.With("user_id", userID, "context", "failed to delete settings").Wrap(err)
	}
	return nil
}
