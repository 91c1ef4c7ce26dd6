package service

import (
	"testing"

	"github.com/reshetovitsme/channel-scout/internal/modules/settings/repository"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return New(repo)
}

func TestReadyToSearch(t *testing.T) {
	s := newTestService(t)

	_, err := s.ReadyToSearch(1)
	assert.ErrorIs(t, err, errors.ErrNotAgreed)

	require.NoError(t, s.Agree(1, "alice"))
	_, err = s.ReadyToSearch(1)
	assert.ErrorIs(t, err, errors.ErrMissingAPIKey)

	require.NoError(t, s.SetAPIKey(1, "alice", "  AIza-secret-1234 "))
	key, err := s.ReadyToSearch(1)
	require.NoError(t, err)
	assert.Equal(t, "AIza-secret-1234", key)

	settings, err := s.GetSettings(1)
	require.NoError(t, err)
	assert.True(t, settings.AgreedToTerms)
	assert.False(t, settings.AgreedAt.IsZero())
	assert.Equal(t, "****1234", settings.MaskedAPIKey())
}

func TestSetAPIKey_RejectsBlank(t *testing.T) {
	s := newTestService(t)
	err := s.SetAPIKey(1, "alice", "   ")
	assert.ErrorIs(t, err, errors.ErrMissingAPIKey)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestForget(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SetAPIKey(1, "alice", "key"))
	require.NoError(t, s.Forget(1))
	require.NoError(t, s.Forget(1))

	_, err := s.GetSettings(1)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestGetAllSettings(t *testing.T) {
	s := newTestService(t)

	all, err := s.GetAllSettings()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.Agree(1, "alice"))
	require.NoError(t, s.SetAPIKey(2, "bob", "key"))

	all, err = s.GetAllSettings()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.Forget(1))
	all, err = s.GetAllSettings()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIsAuthorized(t *testing.T) {
	s := newTestService(t)
	assert.True(t, s.IsAuthorized(5, nil))
	assert.True(t, s.IsAuthorized(5, []int64{1, 5}))
	assert.False(t, s.IsAuthorized(7, []int64{1, 5}))
}
