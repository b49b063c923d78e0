package model

import "time"

// Roles stored in users.role. Role is self-declared at registration,
// mirroring the behaviour of the original API; see DESIGN.md for the
// open question around elevation control.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a row in the `users` table. Handlers define separate
// response types with JSON tags; this struct is used by the repository
// layer only.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (unique, lowercased)
	PasswordHash string    // users.password_hash
	Role         string    // users.role ("user" or "admin")
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken models a row in `refresh_tokens`. The plain token is never
// stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
