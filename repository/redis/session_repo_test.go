package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasktracker/domain"
)

// Integration-style test: runs only if REDIS_URL is set.
func TestSessionRepositoryIntegration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set; skipping integration test")
	}
	opts, err := redislib.ParseURL(url)
	require.NoError(t, err)
	client := redislib.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	repo := NewSessionRepository(client, time.Minute)
	id := uuid.NewString()
	t.Cleanup(func() { _ = repo.Delete(ctx, id) })

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: id, UserID: 42, Username: "alice"}))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)

	require.NoError(t, repo.Extend(ctx, id, 120))
	ttl, err := client.TTL(ctx, key(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Extend(ctx, id, 60), domain.ErrSessionNotFound)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "tasktracker:session:abc", key("abc"))
}
