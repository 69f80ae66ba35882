package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mkortel/panelauth/internal/storage"
	_ "modernc.org/sqlite"
)

// Storage is the durable local state of the console client: the bearer
// token, the sealed refresh credential, the last-known permission snapshot
// and profile. It plays the role a browser's localStorage plays for the
// web console.
type Storage struct {
	db *sql.DB
}

// New creates a new instance of the SQLite state storage.
func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", storagePath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInternal, err)
	}
	return nil
}

func (s *Storage) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM client_state WHERE key = ?", key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", storage.ErrInternal, err)
	}
	return value, nil
}

func (s *Storage) del(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM client_state WHERE key = ?", key,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInternal, err)
	}
	return nil
}
