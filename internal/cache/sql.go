package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"esi-server/internal/shared/database"
)

// SQLStore keeps entries in the cache table created by the database
// migrations. It works against both postgres and sqlite.
type SQLStore struct {
	db     *database.DB
	logger *slog.Logger
}

func NewSQLStore(db *database.DB, logger *slog.Logger) *SQLStore {
	logger.Debug("Initializing sql cache store", "driver", db.Driver)

	return &SQLStore{
		db:     db,
		logger: logger.With("component", "sql_store", "driver", db.Driver),
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	query := fmt.Sprintf("SELECT value FROM cache WHERE cache_key = %s", s.db.Placeholder(1))

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	query := fmt.Sprintf(`
		INSERT INTO cache (cache_key, value, updated_at)
		VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT (cache_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.db.Placeholder(1), s.db.Placeholder(2))

	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Scan(ctx context.Context, suffix string) ([]Entry, error) {
	logger := s.logger.With("operation", "scan", "suffix", suffix)

	query := fmt.Sprintf(`SELECT cache_key, value FROM cache WHERE cache_key LIKE %s ESCAPE '\'`, s.db.Placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, "%"+escapeLike(suffix))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", suffix, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var value []byte
		if err := rows.Scan(&entry.Key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		// LIKE is case-insensitive on sqlite
		if !strings.HasSuffix(entry.Key, suffix) {
			continue
		}
		entry.Value = value
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache rows: %w", err)
	}

	logger.Debug("Scan completed", "count", len(entries))
	return entries, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
