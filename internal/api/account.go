package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mkortel/panelauth/internal/domain/models"
)

// LoginResult is the body of a successful authentication call. The access
// token already carries the permission claims; the refresh token supports
// silent re-login after a self role change.
type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message,omitempty"`
}

// AccountClient covers the account endpoints: authentication, profile and
// the email-confirmation round-trips.
type AccountClient struct {
	c *Client
}

func NewAccountClient(c *Client) *AccountClient {
	return &AccountClient{c: c}
}

func (a *AccountClient) Login(ctx context.Context, email, password string) (LoginResult, error) {
	const op = "api.AccountClient.Login"

	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := a.c.post(ctx, "/api/account/login", body, &res); err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Refresh exchanges the refresh credential for a fresh token pair. A fresh
// authentication round-trip is the only way to pick up changed role claims.
func (a *AccountClient) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	const op = "api.AccountClient.Refresh"

	var res LoginResult
	body := map[string]string{"refreshToken": refreshToken}
	if err := a.c.post(ctx, "/api/account/refresh", body, &res); err != nil {
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (a *AccountClient) Logout(ctx context.Context) error {
	const op = "api.AccountClient.Logout"

	if err := a.c.post(ctx, "/api/account/logout", struct{}{}, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Profile fetches the signed-in user's display data. A relative image path
// is rewritten against the backend base URL.
func (a *AccountClient) Profile(ctx context.Context) (*models.ProfileInfo, error) {
	const op = "api.AccountClient.Profile"

	var profile models.ProfileInfo
	if err := a.c.get(ctx, "/api/account/profile", nil, &profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile.ImageURL = a.c.AbsoluteURL(profile.ImageURL)
	return &profile, nil
}

// IsEmailAvailable asks the remote-validation endpoint whether an email is
// free. Fails open: a transient backend error must not block a form.
func (a *AccountClient) IsEmailAvailable(ctx context.Context, email string) bool {
	var res struct {
		Available bool `json:"available"`
	}
	query := url.Values{"email": []string{email}}
	if err := a.c.get(ctx, "/api/remotevalidation/is-email-available", query, &res); err != nil {
		return true
	}
	return res.Available
}

func (a *AccountClient) ConfirmEmail(ctx context.Context, userID, token string) error {
	const op = "api.AccountClient.ConfirmEmail"

	query := url.Values{"userId": []string{userID}, "token": []string{token}}
	if err := a.c.get(ctx, "/api/account/confirm-email", query, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a *AccountClient) ResendConfirmation(ctx context.Context, email string) error {
	const op = "api.AccountClient.ResendConfirmation"

	body := map[string]string{"email": email}
	if err := a.c.post(ctx, "/api/account/resend-email-confirmation", body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
