package service

import (
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/history/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/history/repository"
)

// Service handles run history business logic
type Service struct {
	repo repository.Repository
}

// New creates a new history service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// SaveRun saves a finished run
func (s *Service) SaveRun(run *domain.Run) error {
	return s.repo.SaveRun(run)
}

// GetRuns retrieves the latest runs of an owner
func (s *Service) GetRuns(owner string, limit int) ([]*domain.Run, error) {
	return s.repo.GetRuns(owner, limit)
}

// GetRecentRuns retrieves runs started since a given time
func (s *Service) GetRecentRuns(owner string, since time.Time) ([]*domain.Run, error) {
	return s.repo.GetRunsSince(owner, since)
}

// QuotaSince sums the quota spent by an owner's runs started after since.
func (s *Service) QuotaSince(owner string, since time.Time) (int64, error) {
	runs, err := s.GetRecentRuns(owner, since)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, run := range runs {
		total += run.QuotaUsed
	}
	return total, nil
}
