package entity

import "time"

// Role of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus moderation state of an account.
type UserStatus string

const (
	UserPendingApproval UserStatus = "pending_approval"
	UserApproved        UserStatus = "approved"
	UserRejected        UserStatus = "rejected"
	UserSuspended       UserStatus = "suspended"
)

// Valid reports whether s is a known account status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserPendingApproval, UserApproved, UserRejected, UserSuspended:
		return true
	}
	return false
}

// User is a registered account. Accounts are never physically removed.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, never plain text after registration
	Name         string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
