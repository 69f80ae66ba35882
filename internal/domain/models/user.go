package models

type UserListItem struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	RoleName    string `json:"roleName,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedOn   string `json:"createdOn,omitempty"`
}

type UserDetails struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	RoleID           string `json:"roleId"`
	IsActive         bool   `json:"isActive"`
	IsEmailConfirmed bool   `json:"isEmailConfirmed"`
	ProfileImagePath string `json:"profileImagePath,omitempty"`
}

type CreateUser struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	RoleID         string `json:"roleId"`
	IsActive       bool   `json:"isActive"`
	Password       string `json:"password"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}

type UpdateUser struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	RoleID         string `json:"roleId"`
	IsActive       bool   `json:"isActive"`
	EmailConfirmed bool   `json:"emailConfirmed"`
	ResetPassword  string `json:"resetPassword,omitempty"`
}

// RoleOption is the short role representation used by user forms.
type RoleOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
