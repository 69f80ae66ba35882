package models

// Session is the live view of the current authentication state. It has no
// storage of its own: it is derived from the token store and the permission
// cache at the moment of the call.
type Session struct {
	LoggedIn    bool
	UserID      string
	Email       string
	Roles       []string
	Permissions []string
}
