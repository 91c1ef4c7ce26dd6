package repository

import (
	"github.com/reshetovitsme/channel-scout/internal/modules/settings/domain"
)

// Repository defines the interface for user settings persistence
type Repository interface {
	SaveSettings(settings *domain.Settings) error
	GetSettings(userID int64) (*domain.Settings, error)
	GetAllSettings() ([]*domain.Settings, error)
	DeleteSettings(userID int64) error
}
