package repository

import (
	"testing"
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/history/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_SaveAndGetRuns(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := range 3 {
		run := &domain.Run{
			Owner:       "chat:42",
			Kind:        "search",
			SearchTerms: []string{"music"},
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			QuotaUsed:   int64(100 * (i + 1)),
		}
		require.NoError(t, repo.SaveRun(run))
		assert.NotEmpty(t, run.ID)
	}

	latest, err := repo.GetRuns("chat:42", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(300), latest[0].QuotaUsed)
	assert.Equal(t, int64(200), latest[1].QuotaUsed)

	since, err := repo.GetRunsSince("chat:42", base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Len(t, since, 2)

	none, err := repo.GetRuns("someone-else", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
