package model

import "time"

// Account represents an authenticated caller as stored in the
// `accounts` table. Every account is assigned a stable hex address at
// registration; the address is what the escrow engine sees as the
// caller identity, and it never changes.
type Account struct {
	ID           uint64    // accounts.id
	Address      string    // accounts.address
	Email        string    // accounts.email
	PasswordHash string    // accounts.password_hash
	IsActive     bool      // accounts.is_active
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	AccountID uint64     // refresh_tokens.account_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
