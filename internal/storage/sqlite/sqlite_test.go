package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkortel/panelauth/internal/domain/models"
	"github.com/mkortel/panelauth/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "../../../migrations"))
	require.NoError(t, db.Close())

	st, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStorage_TokenRoundTrip(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	_, err := st.Token(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.SaveToken(ctx, "tok-123"))
	got, err := st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)

	// Overwrite, not duplicate.
	require.NoError(t, st.SaveToken(ctx, "tok-456"))
	got, err = st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-456", got)

	require.NoError(t, st.DeleteToken(ctx))
	_, err = st.Token(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_CredentialRoundTrip(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	sealed := []byte{0x01, 0x02, 0xff, 0x00, 0x7f}
	require.NoError(t, st.SaveCredential(ctx, sealed))

	got, err := st.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, sealed, got)

	require.NoError(t, st.DeleteCredential(ctx))
	_, err = st.Credential(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_PermissionsRoundTrip(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	_, err := st.Permissions(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.SavePermissions(ctx, []string{"Users.List", "Roles.List"}))
	got, err := st.Permissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Users.List", "Roles.List"}, got)

	// A nil set persists as empty, not as absence.
	require.NoError(t, st.SavePermissions(ctx, nil))
	got, err = st.Permissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorage_CorruptPermissionSnapshot(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, st.put(ctx, keyPermissions, []byte("not json")))

	_, err := st.Permissions(ctx)
	assert.ErrorIs(t, err, storage.ErrCorrupt)
}

func TestStorage_ProfileRoundTrip(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	profile := models.ProfileInfo{
		UserName:  "admin",
		Email:     "admin@example.com",
		FirstName: "Ada",
		LastName:  "Admin",
		RoleName:  "SuperAdmin",
	}
	require.NoError(t, st.SaveProfile(ctx, profile))

	got, err := st.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	require.NoError(t, st.DeleteProfile(ctx))
	_, err = st.Profile(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
