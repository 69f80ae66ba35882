package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/mkortel/panelauth/internal/api"
	"github.com/mkortel/panelauth/internal/domain/models"
	"github.com/mkortel/panelauth/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReauthFailed       = errors.New("re-authentication failed")
)

// State is the session lifecycle phase.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return "anonymous"
	}
}

type AccountClient interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (api.LoginResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.ProfileInfo, error)
}

type TokenStore interface {
	Set(ctx context.Context, token string) error
	Get(ctx context.Context) (token string, ok bool)
	Clear(ctx context.Context) error
	Decode(token string) (*models.Claims, error)
}

type PermissionCache interface {
	RebuildFrom(ctx context.Context, claims *models.Claims)
	Clear(ctx context.Context)
	Has(permission string) bool
	Permissions() []string
}

type CredentialVault interface {
	Save(ctx context.Context, credential string) error
	Load(ctx context.Context) (string, error)
	Delete(ctx context.Context) error
}

type ProfileStorage interface {
	SaveProfile(ctx context.Context, profile models.ProfileInfo) error
	Profile(ctx context.Context) (models.ProfileInfo, error)
}

type Navigator interface {
	Navigate(route string)
}

type Notifier interface {
	Notify(message string)
}

// Service orchestrates the session lifecycle: login, logout, silent
// re-login and the permission refresh after a self role update. All token
// and permission mutation goes through here; UI components only read.
type Service struct {
	log      *slog.Logger
	account  AccountClient
	tokens   TokenStore
	perms    PermissionCache
	vault    CredentialVault
	profiles ProfileStorage
	nav      Navigator
	notifier Notifier

	mu      sync.Mutex
	state   State
	claims  *models.Claims
	profile *models.ProfileInfo
}

// New returns a new instance of the session service.
func New(
	log *slog.Logger,
	account AccountClient,
	tokens TokenStore,
	perms PermissionCache,
	vault CredentialVault,
	profiles ProfileStorage,
	nav Navigator,
	notifier Notifier,
) *Service {
	return &Service{
		log:      log,
		account:  account,
		tokens:   tokens,
		perms:    perms,
		vault:    vault,
		profiles: profiles,
		nav:      nav,
		notifier: notifier,
	}
}

// Restore re-derives the in-memory session view from a token persisted by a
// previous run. No network call: the permission cache restores its own
// mirror separately.
func (s *Service) Restore(ctx context.Context) {
	const op = "session.Restore"

	tok, ok := s.tokens.Get(ctx)
	if !ok {
		return
	}

	claims, err := s.tokens.Decode(tok)
	if err != nil {
		s.log.Warn("persisted token is unparseable", slog.String("op", op), slog.Any("error", err))
	}

	s.mu.Lock()
	s.claims = claims
	s.state = StateAuthenticated
	s.mu.Unlock()
}

// Login authenticates against the backend and establishes the session. The
// permission claims embedded in the returned token are usable immediately;
// a profile fetch is a separate, display-only concern.
func (s *Service) Login(ctx context.Context, email, password string) error {
	const op = "session.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	log.Info("attempting to login user")

	s.setState(StateAuthenticating)

	res, err := s.account.Login(ctx, email, password)
	if err != nil {
		s.setState(StateAnonymous)

		var apiErr *api.Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			log.Info("login rejected", slog.Any("error", err))
			return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("login failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.establish(ctx, res); err != nil {
		s.setState(StateAnonymous)
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")
	return nil
}

// establish commits a token pair: durable token write first, then the
// permission rebuild, then the sealed refresh credential. Permission change
// events therefore always observe a committed token.
func (s *Service) establish(ctx context.Context, res api.LoginResult) error {
	const op = "session.establish"

	if err := s.tokens.Set(ctx, res.Token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	claims, err := s.tokens.Decode(res.Token)
	if err != nil {
		// Fail closed: the session exists but carries zero permissions.
		s.log.Warn("token decode failed, session has no permissions", slog.String("op", op), slog.Any("error", err))
		claims = nil
	}
	s.perms.RebuildFrom(ctx, claims)

	if res.RefreshToken != "" {
		if err := s.vault.Save(ctx, res.RefreshToken); err != nil {
			// Silent re-login will be unavailable; the user lands on the
			// login screen instead.
			s.log.Warn("failed to retain refresh credential", slog.String("op", op), slog.Any("error", err))
		}
	}

	s.mu.Lock()
	s.claims = claims
	s.state = StateAuthenticated
	s.mu.Unlock()

	return nil
}

// Logout notifies the backend best-effort and then tears the local session
// down unconditionally. Client-side logout never depends on server
// reachability.
func (s *Service) Logout(ctx context.Context) error {
	const op = "session.Logout"

	if err := s.account.Logout(ctx); err != nil {
		s.log.Warn("server logout notification failed", slog.String("op", op), slog.Any("error", err))
	}

	if err := s.teardown(ctx, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// teardown clears local session state. dropCredential distinguishes a real
// logout from the transient teardown inside the self role-update flow,
// which must keep the refresh credential for the immediate re-login.
func (s *Service) teardown(ctx context.Context, dropCredential bool) error {
	s.mu.Lock()
	s.claims = nil
	s.profile = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	err := s.tokens.Clear(ctx)
	s.perms.Clear(ctx)

	if dropCredential {
		if vErr := s.vault.Delete(ctx); vErr != nil && !errors.Is(vErr, storage.ErrNotFound) {
			err = errors.Join(err, vErr)
		}
	}
	return err
}

// AutoLogin re-authenticates with the retained refresh credential. A false
// result is a normal outcome (no credential, credential invalidated,
// backend unreachable): the caller falls back to the login screen.
func (s *Service) AutoLogin(ctx context.Context) (bool, error) {
	const op = "session.AutoLogin"

	log := s.log.With(slog.String("op", op))

	cred, err := s.vault.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug("no refresh credential retained")
		} else {
			log.Warn("failed to load refresh credential", slog.Any("error", err))
		}
		return false, nil
	}

	s.setState(StateRefreshing)

	res, err := s.account.Refresh(ctx, cred)
	if err != nil {
		log.Warn("silent re-login failed", slog.Any("error", err))
		s.setState(StateAnonymous)
		return false, nil
	}

	if err := s.establish(ctx, res); err != nil {
		s.setState(StateAnonymous)
		return false, fmt.Errorf("%s: %w", op, err)
	}

	// Display data only; a failed fetch does not undo the re-login.
	if _, err := s.Profile(ctx); err != nil {
		log.Warn("profile refresh failed after re-login", slog.Any("error", err))
	}

	log.Info("silent re-login succeeded")
	return true, nil
}

// Profile fetches and caches the signed-in user's display data.
func (s *Service) Profile(ctx context.Context) (*models.ProfileInfo, error) {
	const op = "session.Profile"

	profile, err := s.account.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()

	if err := s.profiles.SaveProfile(ctx, *profile); err != nil {
		s.log.Warn("failed to cache profile", slog.String("op", op), slog.Any("error", err))
	}
	return profile, nil
}

// LastProfile returns the most recent known profile without a network call:
// the in-memory copy, else the persisted one, else nil.
func (s *Service) LastProfile(ctx context.Context) *models.ProfileInfo {
	s.mu.Lock()
	cached := s.profile
	s.mu.Unlock()
	if cached != nil {
		return cached
	}

	saved, err := s.profiles.Profile(ctx)
	if err != nil {
		return nil
	}
	return &saved
}

// RefreshAfterRoleUpdate keeps the session consistent after a user record
// update. Editing someone else is a no-op. Editing oneself invalidates the
// current token's claims, so the session is torn down and transparently
// re-established; navigation afterwards follows the NEW permission set. If
// re-authentication fails the user is sent to the login screen, so the UI
// is never left running under stale permissions.
func (s *Service) RefreshAfterRoleUpdate(ctx context.Context, editedUserID string) error {
	const op = "session.RefreshAfterRoleUpdate"

	currentID := s.UserID(ctx)
	if editedUserID == "" || currentID == "" || editedUserID != currentID {
		return nil
	}

	log := s.log.With(slog.String("op", op), slog.String("user_id", editedUserID))
	log.Info("self role update, re-authenticating")

	if err := s.account.Logout(ctx); err != nil {
		log.Warn("server logout notification failed", slog.Any("error", err))
	}
	if err := s.teardown(ctx, false); err != nil {
		log.Warn("failed to clear session state", slog.Any("error", err))
	}
	s.setState(StateRefreshing)

	ok, err := s.AutoLogin(ctx)
	if err != nil || !ok {
		if tErr := s.teardown(ctx, true); tErr != nil {
			log.Warn("failed to clear session state", slog.Any("error", tErr))
		}
		s.notifier.Notify("Your session could not be refreshed. Please sign in again.")
		s.nav.Navigate("/login")
		return fmt.Errorf("%s: %w", op, ErrReauthFailed)
	}

	if s.perms.Has("Users.List") {
		s.nav.Navigate("/users")
	} else {
		s.nav.Navigate("/dashboard")
	}

	log.Info("session refreshed after self role update")
	return nil
}

// IsLoggedIn reports token presence, mirroring how the console treats any
// stored token as a live session until the backend says otherwise.
func (s *Service) IsLoggedIn(ctx context.Context) bool {
	_, ok := s.tokens.Get(ctx)
	return ok
}

// UserID returns the subject id of the current session, or empty.
func (s *Service) UserID(ctx context.Context) string {
	if claims := s.currentClaims(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

// Roles returns the role names decoded from the current token.
func (s *Service) Roles(ctx context.Context) []string {
	if claims := s.currentClaims(ctx); claims != nil {
		return append([]string(nil), claims.Roles...)
	}
	return nil
}

func (s *Service) IsSuperAdmin(ctx context.Context) bool {
	for _, r := range s.Roles(ctx) {
		if r == "SuperAdmin" {
			return true
		}
	}
	return false
}

// CanAssignSuperAdmin gates offering the SuperAdmin role in user forms.
func (s *Service) CanAssignSuperAdmin(ctx context.Context) bool {
	for _, r := range s.Roles(ctx) {
		if strings.EqualFold(r, "SuperAdmin") {
			return true
		}
	}
	return false
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot assembles the derived session view.
func (s *Service) Snapshot(ctx context.Context) models.Session {
	claims := s.currentClaims(ctx)
	snap := models.Session{
		LoggedIn:    s.IsLoggedIn(ctx),
		Permissions: s.perms.Permissions(),
	}
	if claims != nil {
		snap.UserID = claims.Subject
		snap.Email = claims.Email
		snap.Roles = append([]string(nil), claims.Roles...)
	}
	return snap
}

func (s *Service) currentClaims(ctx context.Context) *models.Claims {
	s.mu.Lock()
	cached := s.claims
	s.mu.Unlock()
	if cached != nil {
		return cached
	}

	tok, ok := s.tokens.Get(ctx)
	if !ok {
		return nil
	}
	claims, err := s.tokens.Decode(tok)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	if s.claims == nil {
		s.claims = claims
	}
	s.mu.Unlock()
	return claims
}

func (s *Service) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
