// Package auth validates bearer tokens issued by the external identity
// provider and evaluates role-based authorization policies. Token
// issuance is not handled here.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService validates access tokens.
type JWTService interface {
	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation fails
	// (expired, invalid signature, malformed subject, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	// UserID is parsed from the sub claim.
	UserID uuid.UUID

	// Roles lists the recognised roles from the roles claim. Unknown role
	// names are dropped.
	Roles []Role

	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// HasRole reports whether the claims carry the given role.
func (c *Claims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
