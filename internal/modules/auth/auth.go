package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Roles carried in tokens.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks credentials and returns a signed, expiring token.
	Login(ctx context.Context, email, password string) (string, error)

	// Verify parses and validates a token issued by Login.
	Verify(token string) (*Claims, error)
}

// Claims identify the caller of a request. Tokens are self-contained; no
// server-side session is kept.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Role   string    `json:"role"`
	jwt.StandardClaims
}

// IsAdmin reports whether the caller may use admin endpoints.
func (c *Claims) IsAdmin() bool { return c != nil && c.Role == RoleAdmin }

type claimsKey struct{}

// WithClaims stores verified claims on ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom returns the claims stored by Middleware, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
