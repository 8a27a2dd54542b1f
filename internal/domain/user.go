package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an authenticated caller of the API.
type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	RoleID       int
	CreatedAt    time.Time
	UpdatedAt    *time.Time

	Role *Role
}

// RoleName returns the resolved role name, defaulting to the
// unprivileged role when the relation was not loaded.
func (u *User) RoleName() string {
	if u.Role == nil {
		return RoleUser
	}
	return u.Role.Name
}

// Role names a permission level. Permissions holds a JSON document the
// frontend interprets; the API only checks the role name.
type Role struct {
	ID          int
	Name        string
	Permissions string
	CreatedAt   time.Time
}
