package auth

import (
	"context"
	"errors"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (*Claims, error)
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.StandardClaims
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the principal carries any of roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
