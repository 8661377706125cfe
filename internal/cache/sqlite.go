package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amishk599/boardscan/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists provider snapshots so separate CLI runs share the
// same freshness window.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// fetch_cache table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS fetch_cache (
		cache_key  TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating fetch_cache table: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// WithClock replaces the time source. Used by tests.
func (s *SQLiteStore) WithClock(now func() time.Time) *SQLiteStore {
	s.now = now
	return s
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]model.Job, bool, error) {
	var (
		payload   []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM fetch_cache WHERE cache_key = ?", key,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	if s.now().UnixMilli() >= expiresAt {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM fetch_cache WHERE cache_key = ?", key); err != nil {
			return nil, false, fmt.Errorf("evicting cache entry %s: %w", key, err)
		}
		return nil, false, nil
	}

	var jobs []model.Job
	if err := json.Unmarshal(payload, &jobs); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return jobs, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, jobs []model.Job, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	payload, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fetch_cache (cache_key, payload, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		key, payload, s.now().Add(ttl).UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Purge deletes every expired entry.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fetch_cache WHERE expires_at <= ?", s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purging expired cache entries: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
