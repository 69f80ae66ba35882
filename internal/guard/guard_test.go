package guard

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	loggedIn bool
}

func (f fakeSession) IsLoggedIn(context.Context) bool { return f.loggedIn }

type fakePerms struct {
	granted map[string]bool
}

func (f fakePerms) Has(permission string) bool { return f.granted[permission] }

// fakeShell records navigations and notifications and runs dispatched work
// only when asked, mirroring how the real shell defers redirects.
type fakeShell struct {
	routes   []string
	messages []string
	pending  []func()
}

func (s *fakeShell) Navigate(route string) { s.routes = append(s.routes, route) }
func (s *fakeShell) Notify(message string) { s.messages = append(s.messages, message) }
func (s *fakeShell) Dispatch(fn func()) { s.pending = append(s.pending, fn) }

func (s *fakeShell) flush() {
	for _, fn := range s.pending {
		fn()
	}
	s.pending = nil
}

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthGuard_AllowsLoggedInSession(t *testing.T) {
	shell := &fakeShell{}
	g := NewAuthGuard(testLog(), fakeSession{loggedIn: true}, shell, shell, shell)

	assert.True(t, g.CanEnter(context.Background(), Route{Path: "/users"}))
	assert.Empty(t, shell.messages)
	assert.Empty(t, shell.pending)
}

func TestAuthGuard_DeniesAnonymousWithDeferredRedirect(t *testing.T) {
	shell := &fakeShell{}
	g := NewAuthGuard(testLog(), fakeSession{}, shell, shell, shell)

	assert.False(t, g.CanEnter(context.Background(), Route{Path: "/users"}))
	assert.Len(t, shell.messages, 1)

	// The redirect must not run inside the guard decision.
	assert.Empty(t, shell.routes)
	shell.flush()
	assert.Equal(t, []string{"/login"}, shell.routes)
}

func TestPermissionGuard_OpenRouteNeedsNoPermission(t *testing.T) {
	shell := &fakeShell{}
	g := NewPermissionGuard(testLog(), fakePerms{}, shell, shell, shell, NewHistory())

	assert.True(t, g.CanEnter(context.Background(), Route{Path: "/dashboard"}))
}

func TestPermissionGuard_AllowsGrantedPermission(t *testing.T) {
	shell := &fakeShell{}
	perms := fakePerms{granted: map[string]bool{"Roles.List": true}}
	g := NewPermissionGuard(testLog(), perms, shell, shell, shell, NewHistory())

	assert.True(t, g.CanEnter(context.Background(), Route{Path: "/roles", Permission: "Roles.List"}))
	assert.Empty(t, shell.messages)
}

func TestPermissionGuard_DeniedFallsBackToPreviousRoute(t *testing.T) {
	shell := &fakeShell{}
	perms := fakePerms{granted: map[string]bool{"Roles.List": true}}
	history := NewHistory()
	history.Record("/dashboard")
	history.Record("/roles")

	g := NewPermissionGuard(testLog(), perms, shell, shell, shell, history)

	ok := g.CanEnter(context.Background(), Route{Path: "/roles/1/edit", Permission: "Roles.Edit"})
	require.False(t, ok)
	require.Len(t, shell.messages, 1)

	shell.flush()
	assert.Equal(t, []string{"/dashboard"}, shell.routes, "denial redirects to where the user came from")
}

func TestPermissionGuard_DeniedWithoutHistoryGoesToDashboard(t *testing.T) {
	shell := &fakeShell{}
	g := NewPermissionGuard(testLog(), fakePerms{}, shell, shell, shell, NewHistory())

	require.False(t, g.CanEnter(context.Background(), Route{Path: "/users", Permission: "Users.List"}))

	shell.flush()
	assert.Equal(t, []string{"/dashboard"}, shell.routes)
}

func TestHistory_TracksPreviousRoute(t *testing.T) {
	h := NewHistory()
	assert.Empty(t, h.Previous())

	h.Record("/dashboard")
	h.Record("/users")
	assert.Equal(t, "/users", h.Current())
	assert.Equal(t, "/dashboard", h.Previous())

	// Re-recording the current route is not a navigation.
	h.Record("/users")
	assert.Equal(t, "/dashboard", h.Previous())
}
