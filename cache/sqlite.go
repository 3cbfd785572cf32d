package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteTable     = "translations"
	sqliteOpTimeout = 2 * time.Second
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS translations (
	cache_key   TEXT PRIMARY KEY,
	translation TEXT NOT NULL,
	expires_at  INTEGER NOT NULL DEFAULT 0,
	updated_at  TEXT NOT NULL
)`

// SQLiteCache is a file-backed translation cache that survives restarts
// without a Redis server.
type SQLiteCache struct {
	db     *sql.DB
	sq     sq.StatementBuilderType
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// SQLiteConfig holds configuration for the SQLite cache.
type SQLiteConfig struct {
	Path   string        // Database file, created with its directory if missing
	TTL    time.Duration // 0 = no expiration
	Logger *slog.Logger  // Receives read errors, which are served as misses
}

// NewSQLiteCache opens (or creates) the database at cfg.Path.
func NewSQLiteCache(ctx context.Context, cfg SQLiteConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite cache: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("make cache dir: %w", err)
	}
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}

	c := &SQLiteCache{
		db:     db,
		sq:     sq.StatementBuilder,
		ttl:    max(cfg.TTL, 0),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	if cfg.Logger != nil {
		c.logger = cfg.Logger
	}
	return c, nil
}

// live matches rows that have not expired at now.
func live(now time.Time) sq.Sqlizer {
	return sq.Or{sq.Eq{"expires_at": 0}, sq.Gt{"expires_at": now.Unix()}}
}

// Get retrieves a value. Expired rows and read errors are misses.
func (c *SQLiteCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	q, args, err := c.sq.Select("translation").
		From(sqliteTable).
		Where(sq.And{sq.Eq{"cache_key": key}, live(c.now())}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false
	}

	var val string
	if err := c.db.QueryRowContext(ctx, q, args...).Scan(&val); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Debug("sqlite get failed", "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

// Set stores or replaces a value.
func (c *SQLiteCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	now := c.now()
	var expires int64
	if c.ttl > 0 {
		expires = now.Add(c.ttl).Unix()
	}

	q, args, err := c.sq.Insert(sqliteTable).
		Columns("cache_key", "translation", "expires_at", "updated_at").
		Values(key, value, expires, now.UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(cache_key) DO UPDATE SET translation=excluded.translation, expires_at=excluded.expires_at, updated_at=excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build sqlite insert: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (c *SQLiteCache) Delete(key string) error {
	q, args, err := c.sq.Delete(sqliteTable).Where(sq.Eq{"cache_key": key}).ToSql()
	if err != nil {
		return err
	}
	_, err = c.db.Exec(q, args...)
	return err
}

// Len returns the number of live entries.
func (c *SQLiteCache) Len() (int, error) {
	q, args, err := c.sq.Select("COUNT(*)").From(sqliteTable).Where(live(c.now())).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = c.db.QueryRow(q, args...).Scan(&n)
	return n, err
}

// Purge deletes expired rows and returns how many were removed.
func (c *SQLiteCache) Purge() (int, error) {
	q, args, err := c.sq.Delete(sqliteTable).
		Where(sq.And{sq.NotEq{"expires_at": 0}, sq.LtOrEq{"expires_at": c.now().Unix()}}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := c.db.Exec(q, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Snapshot returns every live entry.
func (c *SQLiteCache) Snapshot() (map[string]string, error) {
	q, args, err := c.sq.Select("cache_key", "translation").From(sqliteTable).Where(live(c.now())).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := c.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite snapshot: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("sqlite snapshot: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var (
	_ TranslationCache = (*SQLiteCache)(nil)
	_ Snapshotter      = (*SQLiteCache)(nil)
)
