package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

func newTestSQLiteCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(c.Stop)
	return c
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrCacheMiss)

	entry := testEntry("fp-1", time.Hour)
	require.NoError(t, c.Set(ctx, entry))

	got, err := c.Get(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Fingerprint, got.Fingerprint)
	assert.Equal(t, entry.Score, got.Score)
	assert.Equal(t, entry.Category, got.Category)
	assert.Equal(t, entry.ModelVersion, got.ModelVersion)
	assert.Equal(t, entry.Contributions, got.Contributions)
	assert.WithinDuration(t, entry.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSQLiteCacheOverwrite(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	first := testEntry("fp-1", time.Hour)
	require.NoError(t, c.Set(ctx, first))

	second := testEntry("fp-1", time.Hour)
	second.Score = 91.0
	second.Category = core.CategoryHot
	require.NoError(t, c.Set(ctx, second))

	got, err := c.Get(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, 91.0, got.Score)
	assert.Equal(t, core.CategoryHot, got.Category)
}

func TestSQLiteCacheExpiryAndCleanup(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	live := testEntry("fp-live", time.Hour)
	stale := testEntry("fp-stale", -time.Hour)
	require.NoError(t, c.Set(ctx, live))
	require.NoError(t, c.Set(ctx, stale))

	_, err := c.Get(ctx, "fp-stale")
	assert.ErrorIs(t, err, core.ErrCacheMiss)

	require.NoError(t, c.Cleanup(ctx))

	_, err = c.Get(ctx, "fp-live")
	assert.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "fp-live"))
	_, err = c.Get(ctx, "fp-live")
	assert.ErrorIs(t, err, core.ErrCacheMiss)
}
