package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkortel/panelauth/internal/api"
	"github.com/mkortel/panelauth/internal/app"
	"github.com/mkortel/panelauth/internal/domain/models"
	"github.com/mkortel/panelauth/internal/guard"
	"github.com/mkortel/panelauth/internal/view"
)

// routes maps console paths to the permission that gates them. An empty
// permission means the route only requires a session.
var routes = map[string]string{
	"/dashboard":       "",
	"/users":           "Users.List",
	"/roles":           "Roles.List",
	"/cms":             "CMS.List",
	"/email-templates": "EmailTemplates.List",
	"/audit-logs":      "AuditLogs.List",
}

func newRootCmd(a *app.App, ui *consoleUI) *cobra.Command {
	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Terminal front-end for the admin panel API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// The browser shell attempts a silent re-login at bootstrap. The CLI
	// does the same before every command except login itself.
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "login" {
			return
		}
		if !a.Session.IsLoggedIn(cmd.Context()) {
			if ok, _ := a.Session.AutoLogin(cmd.Context()); ok {
				a.Log.Debug("session restored silently")
			}
		}
	}

	root.AddCommand(
		newLoginCmd(a, ui),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newOpenCmd(a, ui),
		newMenuCmd(a, ui),
		newUsersCmd(a),
		newRolesCmd(a),
		newListCmd("cms", "List CMS pages", func(ctx context.Context, q api.ListQuery) ([]string, int, error) {
			page, err := a.CMS.List(ctx, q)
			if err != nil {
				return nil, 0, err
			}
			rows := make([]string, 0, len(page.Items))
			for _, p := range page.Items {
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s\tactive=%t", p.ID, p.Slug, p.Title, p.IsActive))
			}
			return rows, page.TotalCount, nil
		}),
		newListCmd("email-templates", "List email templates", func(ctx context.Context, q api.ListQuery) ([]string, int, error) {
			page, err := a.EmailTemplates.List(ctx, q)
			if err != nil {
				return nil, 0, err
			}
			rows := make([]string, 0, len(page.Items))
			for _, t := range page.Items {
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s", t.ID, t.Name, t.Subject))
			}
			return rows, page.TotalCount, nil
		}),
		newListCmd("audit-logs", "List audit log entries", func(ctx context.Context, q api.ListQuery) ([]string, int, error) {
			page, err := a.AuditLogs.List(ctx, q)
			if err != nil {
				return nil, 0, err
			}
			rows := make([]string, 0, len(page.Items))
			for _, e := range page.Items {
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s", e.Timestamp, e.UserName, e.Action, e.Entity))
			}
			return rows, page.TotalCount, nil
		}),
	)

	return root
}

func newLoginCmd(a *app.App, ui *consoleUI) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Session.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", email)
			ui.Navigate("/dashboard")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and wipe the local session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := a.Session.Snapshot(cmd.Context())
			out := cmd.OutOrStdout()

			if !snap.LoggedIn {
				fmt.Fprintln(out, "not logged in")
				return nil
			}

			fmt.Fprintf(out, "user:        %s\n", snap.UserID)
			fmt.Fprintf(out, "email:       %s\n", snap.Email)
			fmt.Fprintf(out, "roles:       %s\n", strings.Join(snap.Roles, ", "))
			fmt.Fprintf(out, "permissions: %s\n", strings.Join(snap.Permissions, ", "))

			if profile := a.Session.LastProfile(cmd.Context()); profile != nil {
				fmt.Fprintf(out, "name:        %s %s\n", profile.FirstName, profile.LastName)
			}
			return nil
		},
	}
}

func newOpenCmd(a *app.App, ui *consoleUI) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a console route, subject to guards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			permission, ok := routes[path]
			if !ok {
				return fmt.Errorf("unknown route %q", path)
			}

			route := guard.Route{Path: path, Permission: permission}
			if !a.AuthGuard.CanEnter(cmd.Context(), route) {
				return nil
			}
			if !a.PermissionGuard.CanEnter(cmd.Context(), route) {
				return nil
			}

			ui.Navigate(path)
			return nil
		},
	}
}

// menuRenderer is a one-shot renderer: the CLI evaluates visibility once
// per invocation, so only the initial Show matters.
type menuRenderer struct {
	out   *cobra.Command
	label string
	path  string
}

func (r *menuRenderer) Show() {
	fmt.Fprintf(r.out.OutOrStdout(), "  %-16s %s\n", r.label, r.path)
}

func (r *menuRenderer) Hide() {}

func newMenuCmd(a *app.App, ui *consoleUI) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the navigation entries visible to the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := []struct {
				label string
				path  string
				perms []string
			}{
				{"Dashboard", "/dashboard", nil},
				{"Users", "/users", []string{"Users.List"}},
				{"Roles", "/roles", []string{"Roles.List"}},
				{"CMS", "/cms", []string{"CMS.List"}},
				{"Email Templates", "/email-templates", []string{"EmailTemplates.List"}},
				{"Audit Logs", "/audit-logs", []string{"AuditLogs.List"}},
			}

			fmt.Fprintln(cmd.OutOrStdout(), "menu:")
			for _, e := range entries {
				if len(e.perms) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %s\n", e.label, e.path)
					continue
				}
				b := view.Bind(a.Permissions, e.perms, &menuRenderer{out: cmd, label: e.label, path: e.path})
				b.Close()
			}
			return nil
		},
	}
}

func newUsersCmd(a *app.App) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage panel users",
	}

	var q listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.Users.List(cmd.Context(), q.query())
			if err != nil {
				return err
			}
			for _, u := range page.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\t%s\t%s\tactive=%t\n",
					u.ID, u.FirstName, u.LastName, u.Email, u.RoleName, u.IsActive)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", page.TotalCount)
			return nil
		},
	}
	q.register(list)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:        %s\n", u.ID)
			fmt.Fprintf(out, "name:      %s %s\n", u.FirstName, u.LastName)
			fmt.Fprintf(out, "email:     %s (confirmed=%t)\n", u.Email, u.IsEmailConfirmed)
			fmt.Fprintf(out, "role:      %s\n", u.RoleID)
			fmt.Fprintf(out, "active:    %t\n", u.IsActive)
			if u.ProfileImagePath != "" {
				fmt.Fprintf(out, "image:     %s\n", u.ProfileImagePath)
			}
			return nil
		},
	}

	var roleID string
	update := &cobra.Command{
		Use:   "set-role <id>",
		Short: "Assign a role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			u, err := a.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			dto := models.UpdateUser{
				FirstName:      u.FirstName,
				LastName:       u.LastName,
				PhoneNumber:    u.PhoneNumber,
				RoleID:         roleID,
				IsActive:       u.IsActive,
				EmailConfirmed: u.IsEmailConfirmed,
			}
			if err := a.Users.Update(cmd.Context(), id, dto); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "role updated for %s\n", id)

			// When the edited account is our own, the session picks up the
			// new role's permission set immediately.
			return a.Session.RefreshAfterRoleUpdate(cmd.Context(), id)
		},
	}
	update.Flags().StringVar(&roleID, "role", "", "role id to assign")
	_ = update.MarkFlagRequired("role")

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a user's active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Users.ToggleStatus(cmd.Context(), args[0])
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Users.Delete(cmd.Context(), args[0])
		},
	}

	users.AddCommand(list, get, update, toggle, del)
	return users
}

func newRolesCmd(a *app.App) *cobra.Command {
	roles := &cobra.Command{
		Use:   "roles",
		Short: "Manage roles",
	}

	var q listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.Roles.List(cmd.Context(), q.query())
			if err != nil {
				return err
			}
			for _, r := range page.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tusers=%d\tperms=%d\n",
					r.ID, r.Name, r.UsersCount, len(r.Permissions))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", page.TotalCount)
			return nil
		},
	}
	q.register(list)

	perms := &cobra.Command{
		Use:   "permissions",
		Short: "List every assignable permission",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.Roles.AllPermissions(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range all {
				fmt.Fprintln(cmd.OutOrStdout(), p.Name)
			}
			return nil
		},
	}

	roles.AddCommand(list, perms)
	return roles
}

// newListCmd builds a read-only paged listing command around a single
// fetch-and-format closure.
func newListCmd(use, short string, fetch func(context.Context, api.ListQuery) ([]string, int, error)) *cobra.Command {
	var q listFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, total, err := fetch(cmd.Context(), q.query())
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Fprintln(cmd.OutOrStdout(), row)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", total)
			return nil
		},
	}
	q.register(cmd)
	return cmd
}

type listFlags struct {
	page     int
	size     int
	search   string
	sortBy   string
	sortDesc bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.size, "size", 10, "page size")
	cmd.Flags().StringVar(&f.search, "search", "", "search term")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "sort column")
	cmd.Flags().BoolVar(&f.sortDesc, "desc", false, "sort descending")
}

func (f *listFlags) query() api.ListQuery {
	return api.ListQuery{
		PageNumber: f.page,
		PageSize:   f.size,
		Search:     f.search,
		SortBy:     f.sortBy,
		SortDesc:   f.sortDesc,
	}
}
