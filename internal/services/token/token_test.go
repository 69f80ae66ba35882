package token

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkortel/panelauth/internal/storage"
)

type fakeTokenStorage struct {
	token    string
	hasToken bool

	saveErr   error
	deleteErr error

	permsDeleted bool
}

func (f *fakeTokenStorage) SaveToken(_ context.Context, token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.token = token
	f.hasToken = true
	return nil
}

func (f *fakeTokenStorage) Token(_ context.Context) (string, error) {
	if !f.hasToken {
		return "", storage.ErrNotFound
	}
	return f.token, nil
}

func (f *fakeTokenStorage) DeleteToken(_ context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.token = ""
	f.hasToken = false
	return nil
}

func (f *fakeTokenStorage) DeletePermissions(_ context.Context) error {
	f.permsDeleted = true
	return nil
}

func newTestStore(st *fakeTokenStorage) *Store {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), st)
}

func TestStore_SetThenGet(t *testing.T) {
	st := &fakeTokenStorage{}
	store := newTestStore(st)

	require.NoError(t, store.Set(context.Background(), "tok-123"))

	got, ok := store.Get(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "tok-123", got)
	assert.Equal(t, "tok-123", st.token, "token must be persisted")
}

func TestStore_SetFailsWhenPersistFails(t *testing.T) {
	st := &fakeTokenStorage{saveErr: errors.New("disk full")}
	store := newTestStore(st)

	err := store.Set(context.Background(), "tok-123")
	require.Error(t, err)

	_, ok := store.Get(context.Background())
	assert.False(t, ok, "a token that was never persisted must not exist")
}

func TestStore_GetLoadsPersistedToken(t *testing.T) {
	st := &fakeTokenStorage{token: "persisted", hasToken: true}
	store := newTestStore(st)

	got, ok := store.Get(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "persisted", got)
}

func TestStore_GetWithoutToken(t *testing.T) {
	store := newTestStore(&fakeTokenStorage{})

	got, ok := store.Get(context.Background())
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestStore_ClearRemovesTokenAndPermissionMirror(t *testing.T) {
	st := &fakeTokenStorage{}
	store := newTestStore(st)
	require.NoError(t, store.Set(context.Background(), "tok-123"))

	require.NoError(t, store.Clear(context.Background()))

	_, ok := store.Get(context.Background())
	assert.False(t, ok)
	assert.False(t, st.hasToken)
	assert.True(t, st.permsDeleted)
}

func TestStore_ClearWipesMemoryEvenWhenDeleteFails(t *testing.T) {
	st := &fakeTokenStorage{deleteErr: errors.New("io error")}
	store := newTestStore(st)
	require.NoError(t, store.Set(context.Background(), "tok-123"))

	err := store.Clear(context.Background())
	require.Error(t, err)

	_, ok := store.Get(context.Background())
	assert.False(t, ok, "memory must be cleared regardless of storage errors")
}

func TestStore_DecodeMalformed(t *testing.T) {
	store := newTestStore(&fakeTokenStorage{})

	_, err := store.Decode("garbage")
	assert.ErrorIs(t, err, ErrMalformedToken)
}
