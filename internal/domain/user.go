package domain

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"` // raw server value; resolve with ParseRole
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Role is the closed set of account roles. The upstream API emits free-form
// strings (historically including the plural "users"); ParseRole normalizes
// them once at session load so the rest of the codebase never compares raw
// strings.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	case "agent":
		return RoleAgent, nil
	case "user", "users":
		return RoleUser, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Session is the per-token record the gateway keeps: the upstream bearer
// token, a snapshot of the user, and the role resolved at login time.
// Role here gates UI-facing routes only; the upstream API is the actual
// authorization boundary.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResult is the upstream response to login/register/verify.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// SiteCounts is served by the public (never-authenticated) counts endpoints.
type SiteCounts struct {
	Users      int64            `json:"users"`
	Properties int64            `json:"properties"`
	ByRole     map[string]int64 `json:"by_role,omitempty"`
}
