package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mkortel/panelauth/internal/domain/models"
	"github.com/mkortel/panelauth/internal/storage"
)

const (
	keyToken       = "token"
	keyCredential  = "credential"
	keyPermissions = "permissions"
	keyProfile     = "profile"
)

// SaveToken persists the raw bearer token.
func (s *Storage) SaveToken(ctx context.Context, token string) error {
	const op = "storage.sqlite.SaveToken"

	if err := s.put(ctx, keyToken, []byte(token)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Token returns the persisted bearer token, or storage.ErrNotFound.
func (s *Storage) Token(ctx context.Context) (string, error) {
	const op = "storage.sqlite.Token"

	value, err := s.get(ctx, keyToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(value), nil
}

func (s *Storage) DeleteToken(ctx context.Context) error {
	const op = "storage.sqlite.DeleteToken"

	if err := s.del(ctx, keyToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveCredential persists the sealed refresh credential. The value arrives
// already encrypted; storage never sees the plaintext.
func (s *Storage) SaveCredential(ctx context.Context, sealed []byte) error {
	const op = "storage.sqlite.SaveCredential"

	if err := s.put(ctx, keyCredential, sealed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Credential(ctx context.Context) ([]byte, error) {
	const op = "storage.sqlite.Credential"

	value, err := s.get(ctx, keyCredential)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

func (s *Storage) DeleteCredential(ctx context.Context) error {
	const op = "storage.sqlite.DeleteCredential"

	if err := s.del(ctx, keyCredential); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SavePermissions mirrors the last-known permission set so a restart can
// make a (possibly stale) decision before the first network round-trip.
func (s *Storage) SavePermissions(ctx context.Context, perms []string) error {
	const op = "storage.sqlite.SavePermissions"

	if perms == nil {
		perms = []string{}
	}
	value, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.put(ctx, keyPermissions, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Permissions(ctx context.Context) ([]string, error) {
	const op = "storage.sqlite.Permissions"

	value, err := s.get(ctx, keyPermissions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var perms []string
	if err := json.Unmarshal(value, &perms); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, storage.ErrCorrupt, err)
	}
	return perms, nil
}

func (s *Storage) DeletePermissions(ctx context.Context) error {
	const op = "storage.sqlite.DeletePermissions"

	if err := s.del(ctx, keyPermissions); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveProfile caches the last fetched profile for display across restarts.
func (s *Storage) SaveProfile(ctx context.Context, profile models.ProfileInfo) error {
	const op = "storage.sqlite.SaveProfile"

	value, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.put(ctx, keyProfile, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Profile(ctx context.Context) (models.ProfileInfo, error) {
	const op = "storage.sqlite.Profile"

	value, err := s.get(ctx, keyProfile)
	if err != nil {
		return models.ProfileInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	var profile models.ProfileInfo
	if err := json.Unmarshal(value, &profile); err != nil {
		return models.ProfileInfo{}, fmt.Errorf("%s: %w: %v", op, storage.ErrCorrupt, err)
	}
	return profile, nil
}

func (s *Storage) DeleteProfile(ctx context.Context) error {
	const op = "storage.sqlite.DeleteProfile"

	if err := s.del(ctx, keyProfile); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
