package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasktracker/domain"
)

func openStore(t *testing.T) *SessionStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "sessions.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	session := &domain.Session{ID: "s1", UserID: 7, Username: "alice"}
	require.NoError(t, s.Save(ctx, session))
	assert.False(t, session.CreatedAt.IsZero())
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_SaveRejectsMissingID(t *testing.T) {
	s := openStore(t)
	assert.ErrorIs(t, s.Save(context.Background(), &domain.Session{}), domain.ErrInvalidPayload)
	assert.ErrorIs(t, s.Save(context.Background(), nil), domain.ErrInvalidPayload)
}

func TestSessionStore_Extend(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	require.NoError(t, s.Save(ctx, &domain.Session{ID: "s1", UserID: 1}))
	require.NoError(t, s.Extend(ctx, "s1", 7200))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.Equal(base.Add(2*time.Hour)))

	assert.ErrorIs(t, s.Extend(ctx, "missing", 60), domain.ErrSessionNotFound)
}

func TestSessionStore_Cleanup(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

	for id, expires := range map[string]time.Time{
		"old":    now.Add(-time.Minute),
		"edge":   now,
		"fresh":  now.Add(time.Minute),
		"future": now.Add(time.Hour),
	} {
		require.NoError(t, s.Save(ctx, &domain.Session{
			ID:        id,
			UserID:    1,
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: expires,
		}))
	}

	removed, err := s.Cleanup(now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	size, err := s.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_ClosedStore(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())

	var nilStore *SessionStore
	assert.Error(t, nilStore.Ping(context.Background()))
	assert.NoError(t, nilStore.Close())
}
