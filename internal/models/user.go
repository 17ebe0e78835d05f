package models

import "time"

// Role is a closed set of authorization roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a role name onto the closed enum.
func ParseRole(name string) (Role, bool) {
	switch Role(name) {
	case RoleUser, RoleAdmin:
		return Role(name), true
	}
	return "", false
}

// User represents an account holder
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not serialized
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
