package models

// ProfileInfo is server-fetched display data for the signed-in user. It is
// presentation state only: staleness or absence must never influence an
// authorization decision.
type ProfileInfo struct {
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	LastLoggedIn string `json:"lastLoggedIn,omitempty"`
	CreatedOn    string `json:"createdOn,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	RoleName     string `json:"roleName,omitempty"`
}
