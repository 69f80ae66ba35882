package app

import (
	"context"
	"log/slog"

	"github.com/mkortel/panelauth/internal/api"
	"github.com/mkortel/panelauth/internal/config"
	"github.com/mkortel/panelauth/internal/guard"
	"github.com/mkortel/panelauth/internal/lib/seal"
	"github.com/mkortel/panelauth/internal/services/permcache"
	"github.com/mkortel/panelauth/internal/services/session"
	"github.com/mkortel/panelauth/internal/services/token"
	"github.com/mkortel/panelauth/internal/storage/sqlite"
)

// UI is the presentation layer the core reports into: a router, a transient
// notice mechanism, and a queue that runs deferred work after the current
// navigation settles.
type UI interface {
	Navigate(route string)
	Notify(message string)
	Dispatch(fn func())
}

type App struct {
	Log     *slog.Logger
	Storage *sqlite.Storage

	Tokens      *token.Store
	Permissions *permcache.Cache
	Session     *session.Service

	History         *guard.History
	AuthGuard       *guard.AuthGuard
	PermissionGuard *guard.PermissionGuard

	Account        *api.AccountClient
	Users          *api.UsersClient
	Roles          *api.RolesClient
	CMS            *api.CMSClient
	EmailTemplates *api.EmailTemplatesClient
	AuditLogs      *api.AuditLogsClient
}

// New wires the whole client. Every service is an explicitly constructed
// instance owned here and injected by reference; nothing hangs off package
// globals.
func New(log *slog.Logger, cfg *config.Config, ui UI) *App {
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		panic(err)
	}

	key, err := seal.KeyFromHex(cfg.CredentialKey)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	tokens := token.New(log, storage)
	perms := permcache.New(log, storage, cfg.Cache.DebounceWindow)
	perms.Load(ctx)

	client, err := api.New(log, cfg.API.BaseURL, cfg.API.Timeout, tokens)
	if err != nil {
		panic(err)
	}
	account := api.NewAccountClient(client)

	vault := session.NewVault(key, storage)
	sess := session.New(log, account, tokens, perms, vault, storage, ui, ui)
	sess.Restore(ctx)

	history := guard.NewHistory()

	return &App{
		Log:             log,
		Storage:         storage,
		Tokens:          tokens,
		Permissions:     perms,
		Session:         sess,
		History:         history,
		AuthGuard:       guard.NewAuthGuard(log, sess, ui, ui, ui),
		PermissionGuard: guard.NewPermissionGuard(log, perms, ui, ui, ui, history),
		Account:         account,
		Users:           api.NewUsersClient(client, cfg.API.PageCacheSize),
		Roles:           api.NewRolesClient(client, cfg.API.PageCacheSize),
		CMS:             api.NewCMSClient(client, cfg.API.PageCacheSize),
		EmailTemplates:  api.NewEmailTemplatesClient(client, cfg.API.PageCacheSize),
		AuditLogs:       api.NewAuditLogsClient(client, cfg.API.PageCacheSize),
	}
}

func (a *App) Close() error {
	return a.Storage.Close()
}
