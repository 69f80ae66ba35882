package session

import (
	"context"
	"fmt"

	"github.com/mkortel/panelauth/internal/lib/seal"
)

type CredentialStorage interface {
	SaveCredential(ctx context.Context, sealed []byte) error
	Credential(ctx context.Context) ([]byte, error)
	DeleteCredential(ctx context.Context) error
}

// Vault keeps the refresh credential for silent re-login, sealed at rest.
// The original console cached the plaintext password for this purpose; here
// the credential is a server-issued refresh token and never touches disk
// unencrypted.
type Vault struct {
	key     []byte
	storage CredentialStorage
}

// NewVault returns a new instance of the credential vault.
func NewVault(key []byte, storage CredentialStorage) *Vault {
	return &Vault{key: key, storage: storage}
}

func (v *Vault) Save(ctx context.Context, credential string) error {
	const op = "session.Vault.Save"

	sealed, err := seal.Seal(v.key, []byte(credential))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := v.storage.SaveCredential(ctx, sealed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load returns the stored credential, or storage.ErrNotFound when none is
// retained.
func (v *Vault) Load(ctx context.Context) (string, error) {
	const op = "session.Vault.Load"

	sealed, err := v.storage.Credential(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	plaintext, err := seal.Open(v.key, sealed)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(plaintext), nil
}

func (v *Vault) Delete(ctx context.Context) error {
	const op = "session.Vault.Delete"

	if err := v.storage.DeleteCredential(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
