package domain

type UserRole string

const (
	RoleAdmin UserRole = "管理员"
	RoleUser  UserRole = "普通用户"
)

// Permissions are coarse per-user action flags. They come from the seeded
// user records; there is no real authentication behind them.
type Permissions struct {
	CanView          bool `json:"canView"`
	CanImport        bool `json:"canImport"`
	CanExport        bool `json:"canExport"`
	CanModify        bool `json:"canModify"`
	CanDelete        bool `json:"canDelete"`
	RequiresApproval bool `json:"requiresApproval"`
}

type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Role        UserRole    `json:"role"`
	Department  string      `json:"department"`
	Permissions Permissions `json:"permissions"`
}

// CanEditSecurityLevel gates the one admin-only metadata field.
func (u *User) CanEditSecurityLevel() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanManageUsers gates the user-administration surface.
func (u *User) CanManageUsers() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) CanReview() bool {
	return u != nil && (u.Role == RoleAdmin || u.Permissions.CanModify)
}

func (u *User) CanUpload() bool {
	return u != nil && (u.Role == RoleAdmin || u.Permissions.CanImport)
}
