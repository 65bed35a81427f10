package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

func testEntry(fingerprint string, ttl time.Duration) *core.ScoreCacheEntry {
	now := time.Now()
	return &core.ScoreCacheEntry{
		Fingerprint:   fingerprint,
		Score:         72.5,
		Category:      core.CategoryWarm,
		Contributions: map[string]float64{"email_quality": 0.4, "phone_validity": -0.1},
		ModelVersion:  "forest-abc123def4",
		LastSeen:      now,
		ExpiresAt:     now.Add(ttl),
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewMemoryCache(zap.NewNop(), time.Minute)
	defer c.Stop()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrCacheMiss)

	entry := testEntry("fp-1", time.Minute)
	require.NoError(t, c.Set(ctx, entry))

	got, err := c.Get(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Score, got.Score)
	assert.Equal(t, core.CategoryWarm, got.Category)
	assert.Equal(t, entry.Contributions, got.Contributions)

	require.NoError(t, c.Delete(ctx, "fp-1"))
	_, err = c.Get(ctx, "fp-1")
	assert.ErrorIs(t, err, core.ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewMemoryCache(zap.NewNop(), time.Minute)
	defer c.Stop()
	ctx := context.Background()

	expired := testEntry("fp-old", -time.Second)
	require.NoError(t, c.Set(ctx, expired))

	_, err := c.Get(ctx, "fp-old")
	assert.ErrorIs(t, err, core.ErrCacheMiss)

	// Cleanup drops the stale row so the map does not grow unbounded
	require.NoError(t, c.Cleanup(ctx))
	c.mu.RLock()
	assert.Empty(t, c.entries)
	c.mu.RUnlock()
}

func TestMemoryCacheStopEndsCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	c.Stop()
	goleak.VerifyNone(t)
}
