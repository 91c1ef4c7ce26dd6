package repository

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/channel-scout/internal/modules/history/domain"
	"github.com/samber/oops"
)

// FileStorage implements history.Repository using file system
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based run history repository
func NewFileStorage(basePath string) (Repository, error) {
	historyPath := filepath.Join(basePath, "history")
	if err := os.MkdirAll(historyPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create history directory").Wrap(err)
	}

	return &FileStorage{basePath: historyPath}, nil
}

func (s *FileStorage) ownerDir(owner string) string {
	return filepath.Join(s.basePath, url.PathEscape(owner))
}

func (s *FileStorage) SaveRun(run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Time-ordered ids keep directory listings chronological
	if run.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return oops.With("owner", run.Owner, "context", "failed to generate run id").Wrap(err)
		}
		run.ID = id.String()
	}

	runDir := s.ownerDir(run.Owner)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return oops.With("run_dir", runDir, "context", "failed to create run directory").Wrap(err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return oops.With("owner", run.Owner, "run_id", run.ID, "context", "failed to marshal run").Wrap(err)
	}

	return os.WriteFile(filepath.Join(runDir, run.ID+".json"), data, 0644)
}

// GetRuns returns up to limit runs of owner, newest first.
func (s *FileStorage) GetRuns(owner string, limit int) ([]*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs, err := s.readRuns(owner)
	if err != nil {
		return nil, err
	}

	out := []*domain.Run{}
	for i := len(runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, runs[i])
	}
	return out, nil
}

// GetRunsSince returns the runs of owner that started after since, oldest first.
func (s *FileStorage) GetRunsSince(owner string, since time.Time) ([]*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs, err := s.readRuns(owner)
	if err != nil {
		return nil, err
	}

	var out []*domain.Run
	for _, run := range runs {
		if run.StartedAt.After(since) {
			out = append(out, run)
		}
	}
	return out, nil
}

func (s *FileStorage) readRuns(owner string) ([]*domain.Run, error) {
	runDir := s.ownerDir(owner)
	entries, err := os.ReadDir(runDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Run{}, nil
		}
		return nil, oops.With("owner", owner, "run_dir", runDir, "context", "failed to read run directory").Wrap(err)
	}

	var runs []*domain.Run
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(runDir, entry.Name()))
		if err != nil {
			continue
		}

		var run domain.Run
		if err := json.Unmarshal(data, &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}

	return runs, nil
}
