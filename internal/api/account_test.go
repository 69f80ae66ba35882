package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkortel/panelauth/internal/domain/models"
)

func TestAccountClient_Login(t *testing.T) {
	email := gofakeit.Email()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/account/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, email, body["email"])

		_ = json.NewEncoder(w).Encode(LoginResult{Token: "tok", RefreshToken: "rt"})
	}), staticTokens{})

	account := NewAccountClient(client)

	res, err := account.Login(context.Background(), email, "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "rt", res.RefreshToken)
}

func TestAccountClient_ProfileAbsolutizesImageURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/account/profile", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.ProfileInfo{UserName: "admin", ImageURL: "/uploads/me.png"})
	}), staticTokens{token: "tok"})

	account := NewAccountClient(client)

	profile, err := account.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, client.BaseURL()+"/uploads/me.png", profile.ImageURL)
}

func TestAccountClient_IsEmailAvailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/remotevalidation/is-email-available", r.URL.Path)
		taken := r.URL.Query().Get("email") == "taken@example.com"
		_ = json.NewEncoder(w).Encode(map[string]bool{"available": !taken})
	}), staticTokens{})

	account := NewAccountClient(client)
	ctx := context.Background()

	assert.True(t, account.IsEmailAvailable(ctx, "free@example.com"))
	assert.False(t, account.IsEmailAvailable(ctx, "taken@example.com"))
}

func TestAccountClient_IsEmailAvailableFailsOpen(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), staticTokens{})

	account := NewAccountClient(client)

	assert.True(t, account.IsEmailAvailable(context.Background(), gofakeit.Email()),
		"a backend failure must not block the form")
}

func TestAccountClient_ConfirmEmail(t *testing.T) {
	userID := gofakeit.UUID()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/account/confirm-email", r.URL.Path)
		assert.Equal(t, userID, r.URL.Query().Get("userId"))
		assert.Equal(t, "tkn", r.URL.Query().Get("token"))
		w.WriteHeader(http.StatusOK)
	}), staticTokens{})

	account := NewAccountClient(client)

	require.NoError(t, account.ConfirmEmail(context.Background(), userID, "tkn"))
}
