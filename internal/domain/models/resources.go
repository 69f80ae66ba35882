package models

type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	UsersCount  int      `json:"usersCount,omitempty"`
}

type Permission struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CMSPage struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content,omitempty"`
	IsActive  bool   `json:"isActive"`
	UpdatedOn string `json:"updatedOn,omitempty"`
}

type EmailTemplate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Body      string `json:"body,omitempty"`
	IsActive  bool   `json:"isActive"`
	UpdatedOn string `json:"updatedOn,omitempty"`
}

type AuditLogEntry struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Action    string `json:"action"`
	Entity    string `json:"entity,omitempty"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}
