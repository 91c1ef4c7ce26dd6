package repository

import (
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/history/domain"
)

// Repository defines the interface for run history persistence
type Repository interface {
	SaveRun(run *domain.Run) error
	GetRuns(owner string, limit int) ([]*domain.Run, error)
	GetRunsSince(owner string, since time.Time) ([]*domain.Run, error)
}
