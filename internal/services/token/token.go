package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mkortel/panelauth/internal/domain/models"
	"github.com/mkortel/panelauth/internal/lib/jwtx"
	"github.com/mkortel/panelauth/internal/storage"
)

var ErrMalformedToken = jwtx.ErrMalformedToken

type Storage interface {
	SaveToken(ctx context.Context, token string) (err error)
	Token(ctx context.Context) (string, error)
	DeleteToken(ctx context.Context) error
	DeletePermissions(ctx context.Context) error
}

// Store owns the raw bearer credential. It keeps an in-memory copy backed by
// the durable state storage so the token survives a restart.
type Store struct {
	log     *slog.Logger
	storage Storage

	mu      sync.RWMutex
	current string
	loaded  bool
}

// New returns a new instance of the token store.
func New(log *slog.Logger, storage Storage) *Store {
	return &Store{
		log:     log,
		storage: storage,
	}
}

// Set persists the token. The durable write happens first: downstream state
// is derived from the stored token, so a skipped write is an error, never a
// silent fallback to memory only.
func (s *Store) Set(ctx context.Context, token string) error {
	const op = "token.Set"

	if err := s.storage.SaveToken(ctx, token); err != nil {
		s.log.Error("failed to persist token", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.current = token
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// Get returns the current token, loading it from storage on first use.
// The second return reports token presence; an anonymous session is a
// normal condition, not an error.
func (s *Store) Get(ctx context.Context) (string, bool) {
	const op = "token.Get"

	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.current, s.current != ""
	}
	s.mu.RUnlock()

	stored, err := s.storage.Token(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn("failed to load persisted token", slog.String("op", op), slog.Any("error", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.current = stored
		s.loaded = true
	}
	return s.current, s.current != ""
}

// Clear removes the token together with the mirrored permission snapshot.
// Memory is cleared even when a durable delete fails; the error is still
// reported so the caller can surface it.
func (s *Store) Clear(ctx context.Context) error {
	const op = "token.Clear"

	s.mu.Lock()
	s.current = ""
	s.loaded = true
	s.mu.Unlock()

	err := errors.Join(
		s.storage.DeleteToken(ctx),
		s.storage.DeletePermissions(ctx),
	)
	if err != nil {
		s.log.Warn("failed to clear persisted session state", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Decode parses the claims out of a token without verifying the signature.
func (s *Store) Decode(token string) (*models.Claims, error) {
	const op = "token.Decode"

	claims, err := jwtx.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}
