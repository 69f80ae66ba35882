// Package guard implements the route-entry checks of the console. Guards
// never throw: absence of a session or of a permission is a normal,
// expected condition that resolves to a boolean plus a deferred redirect.
package guard

import (
	"context"
	"log/slog"
)

// Route is a navigation target. Permission, when set, gates entry.
type Route struct {
	Path       string
	Permission string
}

type Session interface {
	IsLoggedIn(ctx context.Context) bool
}

type PermissionChecker interface {
	Has(permission string) bool
}

type Navigator interface {
	Navigate(route string)
}

type Notifier interface {
	Notify(message string)
}

// Dispatcher defers a redirect until after the guard's synchronous decision
// has returned, so the redirect cannot interfere with the router's in-flight
// navigation transaction.
type Dispatcher interface {
	Dispatch(fn func())
}

// AuthGuard denies entry to any route when no session exists.
type AuthGuard struct {
	log      *slog.Logger
	session  Session
	nav      Navigator
	notifier Notifier
	dispatch Dispatcher
}

// NewAuthGuard returns a new instance of the authentication guard.
func NewAuthGuard(log *slog.Logger, session Session, nav Navigator, notifier Notifier, dispatch Dispatcher) *AuthGuard {
	return &AuthGuard{
		log:      log,
		session:  session,
		nav:      nav,
		notifier: notifier,
		dispatch: dispatch,
	}
}

func (g *AuthGuard) CanEnter(ctx context.Context, route Route) bool {
	const op = "guard.AuthGuard.CanEnter"

	if g.session.IsLoggedIn(ctx) {
		return true
	}

	g.log.Info("anonymous navigation denied", slog.String("op", op), slog.String("path", route.Path))
	g.notifier.Notify("Please log in to access this page.")
	g.dispatch.Dispatch(func() {
		g.nav.Navigate("/login")
	})
	return false
}

// PermissionGuard denies entry to routes whose required permission the
// current session lacks. Denial redirects to the previously visited route
// when known, else to the dashboard.
type PermissionGuard struct {
	log      *slog.Logger
	perms    PermissionChecker
	nav      Navigator
	notifier Notifier
	dispatch Dispatcher
	history  *History
}

// NewPermissionGuard returns a new instance of the permission guard.
func NewPermissionGuard(
	log *slog.Logger,
	perms PermissionChecker,
	nav Navigator,
	notifier Notifier,
	dispatch Dispatcher,
	history *History,
) *PermissionGuard {
	return &PermissionGuard{
		log:      log,
		perms:    perms,
		nav:      nav,
		notifier: notifier,
		dispatch: dispatch,
		history:  history,
	}
}

func (g *PermissionGuard) CanEnter(ctx context.Context, route Route) bool {
	const op = "guard.PermissionGuard.CanEnter"

	if route.Permission == "" {
		return true
	}
	if g.perms.Has(route.Permission) {
		return true
	}

	g.log.Info(
		"navigation denied",
		slog.String("op", op),
		slog.String("path", route.Path),
		slog.String("permission", route.Permission),
	)
	g.notifier.Notify("You do not have permission to access this page.")

	fallback := g.history.Previous()
	if fallback == "" {
		fallback = "/dashboard"
	}
	g.dispatch.Dispatch(func() {
		g.nav.Navigate(fallback)
	})
	return false
}
