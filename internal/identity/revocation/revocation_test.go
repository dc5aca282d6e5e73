package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verifyflow/pkg/platform/sentinel"
)

func TestRedisTRL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	reg := prometheus.NewRegistry()
	trl := NewRedisTRL(client, WithRegisterer(reg))
	ctx := context.Background()

	revoked, err := trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, trl.RevokeToken(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("trl:jti:jti-1"))

	revoked, err = trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.ErrorIs(t, trl.RevokeToken(ctx, "jti-2", 0), sentinel.ErrInvalidState)
	assert.NoError(t, trl.RevokeToken(ctx, "", time.Minute))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "verifyflow_is_token_revoked_duration_ms"))
}

func TestRedisTRLBackendFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	trl := NewRedisTRL(client)
	mr.Close()

	_, err := trl.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestInMemoryTRL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	trl := NewInMemoryTRL(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, trl.RevokeToken(ctx, "jti-1", time.Minute))
	revoked, err := trl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = trl.IsRevoked(ctx, "other")
	assert.False(t, revoked)

	now = now.Add(time.Minute)
	revoked, _ = trl.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)

	assert.ErrorIs(t, trl.RevokeToken(ctx, "jti-2", -time.Second), sentinel.ErrInvalidState)
}
