package models

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusInactive  UserStatus = "inactive"
)

// Moderator permission flags. Admins implicitly hold all of them.
const (
	PermApprovePayouts  = "approve_payouts"
	PermManageConfig    = "manage_config"
	PermModerateStreams = "moderate_streams"
)

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	Permissions  []string   `json:"permissions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return errors.New("username too short")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// Actor is the capability view of whoever is performing a request. Downstream
// code checks capabilities, never the concrete role.
type Actor struct {
	ID          string
	DisplayName string
	Role        Role
	Permissions []string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func (a Actor) Can(perm string) bool {
	if a.Role == RoleAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
