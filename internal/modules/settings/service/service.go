package service

import (
	stderrors "errors"
	"slices"
	"strings"
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/settings/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/settings/repository"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/oops"
)

// Service handles user settings business logic
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

// New creates a new settings service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// GetOrCreate returns the user's settings, creating empty ones on first contact
func (s *Service) GetOrCreate(userID int64, username string) (*domain.Settings, error) {
	settings, err := s.repo.GetSettings(userID)
	if err == nil {
		return settings, nil
	}
	if !stderrors.Is(err, errors.ErrUserNotFound) {
		return nil, err
	}

	settings = &domain.Settings{UserID: userID, Username: username, AddedAt: s.now()}
	if err := s.repo.SaveSettings(settings); err != nil {
		return nil, oops.With("user_id", userID, "context", "failed to create settings").Wrap(err)
	}
	return settings, nil
}

// GetSettings retrieves a user's settings
func (s *Service) GetSettings(userID int64) (*domain.Settings, error) {
	return s.repo.GetSettings(userID)
}

// SetAPIKey stores the user's YouTube Data API key
func (s *Service) SetAPIKey(userID int64, username, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.NewValidation("apiKey", errors.ErrMissingAPIKey)
	}

	settings, err := s.GetOrCreate(userID, username)
	if err != nil {
		return err
	}
	settings.APIKey = apiKey
	return s.repo.SaveSettings(settings)
}

// Agree records the user's acceptance of the terms of use
func (s *Service) Agree(userID int64, username string) error {
	settings, err := s.GetOrCreate(userID, username)
	if err != nil {
		return err
	}
	if settings.AgreedToTerms {
		return nil
	}
	settings.AgreedToTerms = true
	settings.AgreedAt = s.now()
	return s.repo.SaveSettings(settings)
}

// Forget removes everything stored for the user
func (s *Service) Forget(userID int64) error {
	return s.repo.DeleteSettings(userID)
}

// ReadyToSearch returns the user's API key once they have agreed to the terms and saved a key
func (s *Service) ReadyToSearch(userID int64) (string, error) {
	settings, err := s.repo.GetSettings(userID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return "", errors.ErrNotAgreed
		}
		return "", err
	}
	if !settings.AgreedToTerms {
		return "", errors.ErrNotAgreed
	}
	if !settings.HasAPIKey() {
		return "", errors.ErrMissingAPIKey
	}
	return settings.APIKey, nil
}

// GetAllSettings retrieves every stored user
func (s *Service) GetAllSettings() ([]*domain.Settings, error) {
	return s.repo.GetAllSettings()
}

// IsAuthorized checks if a user is authorized
func (s *Service) IsAuthorized(userID int64, allowedUsers []int64) bool {
	if len(allowedUsers) == 0 {
		return true // No restrictions
	}
	return slices.Contains(allowedUsers, userID)
}
