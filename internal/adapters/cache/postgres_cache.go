package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// PostgresCache is a PostgreSQL implementation of the ScoreCache
// interface backed by a pgx connection pool
type PostgresCache struct {
	pool        *pgxpool.Pool
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewPostgresCache creates a new PostgreSQL score cache
func NewPostgresCache(ctx context.Context, dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*PostgresCache, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS lead_score_cache (
			fingerprint TEXT PRIMARY KEY,
			score DOUBLE PRECISION,
			category TEXT,
			contributions TEXT,
			model_version TEXT,
			last_seen TIMESTAMPTZ,
			expires_at TIMESTAMPTZ
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_expires_at ON lead_score_cache(expires_at)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &PostgresCache{
		pool:        pool,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached entry by lead fingerprint
func (c *PostgresCache) Get(ctx context.Context, fingerprint string) (*core.ScoreCacheEntry, error) {
	var entry core.ScoreCacheEntry
	var category, contributions string

	err := c.pool.QueryRow(ctx, `
		SELECT fingerprint, score, category, contributions, model_version, last_seen, expires_at
		FROM lead_score_cache
		WHERE fingerprint = $1 AND expires_at > NOW()
	`, fingerprint).Scan(
		&entry.Fingerprint, &entry.Score, &category, &contributions, &entry.ModelVersion,
		&entry.LastSeen, &entry.ExpiresAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry.Category = core.Category(category)
	entry.Contributions, err = decodeContributions(contributions)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Set stores a cache entry
func (c *PostgresCache) Set(ctx context.Context, entry *core.ScoreCacheEntry) error {
	contributions, err := encodeContributions(entry.Contributions)
	if err != nil {
		return err
	}

	_, err = c.pool.Exec(ctx, `
		INSERT INTO lead_score_cache
			(fingerprint, score, category, contributions, model_version, last_seen, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (fingerprint) DO UPDATE SET
			score = EXCLUDED.score,
			category = EXCLUDED.category,
			contributions = EXCLUDED.contributions,
			model_version = EXCLUDED.model_version,
			last_seen = EXCLUDED.last_seen,
			expires_at = EXCLUDED.expires_at
	`, entry.Fingerprint, entry.Score, string(entry.Category), contributions, entry.ModelVersion,
		entry.LastSeen, entry.ExpiresAt)

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Delete removes a cache entry
func (c *PostgresCache) Delete(ctx context.Context, fingerprint string) error {
	_, err := c.pool.Exec(ctx, `
		DELETE FROM lead_score_cache
		WHERE fingerprint = $1
	`, fingerprint)

	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Cleanup removes expired entries
func (c *PostgresCache) Cleanup(ctx context.Context) error {
	tag, err := c.pool.Exec(ctx, `
		DELETE FROM lead_score_cache
		WHERE expires_at <= NOW()
	`)

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", tag.RowsAffected()))
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *PostgresCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the connection pool
func (c *PostgresCache) Stop() {
	close(c.stopCh)
	c.pool.Close()
}
