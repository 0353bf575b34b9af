package model

import "time"

// Roles a user account can hold.  New accounts always start as RoleUser;
// RoleAdmin is assigned out of band.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  The struct doubles as the external representation: PasswordHash
// carries a `json:"-"` tag so the hash can never leak through any endpoint
// that serializes a User.
//
// Fields:
//  ID           – immutable UUID primary key, assigned at registration.
//  Username     – unique handle, 3–50 characters.
//  Email        – unique address, stored lower-cased.
//  PasswordHash – bcrypt hash; never the plaintext, never serialized.
//  FirstName    – optional display name.
//  LastName     – optional display name.
//  Role         – "user" or "admin".
//  IsActive     – account flag; defaults true.
//  LastLogin    – nullable; reserved for a login-audit feature.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string     `json:"id"`
    Username     string     `json:"username"`
    Email        string     `json:"email"`
    PasswordHash string     `json:"-"`
    FirstName    string     `json:"firstName,omitempty"`
    LastName     string     `json:"lastName,omitempty"`
    Role         string     `json:"role"`
    IsActive     bool       `json:"isActive"`
    LastLogin    *time.Time `json:"lastLogin"`
    CreatedAt    time.Time  `json:"createdAt"`
    UpdatedAt    time.Time  `json:"updatedAt"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and carries expiry and revocation metadata.  The
// signed token itself is not stored; only its SHA-256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    string     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
