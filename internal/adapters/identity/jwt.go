// Package identity resolves bearer tokens to callers. The HMAC-JWT provider
// here stands in for whatever identity service issues the tokens; the core
// only depends on domain.IdentityProvider.
package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Tertoey/roomBooking/internal/domain"
)

type JWTProvider struct {
	secret []byte
}

func NewJWT(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

// Authenticate parses an HS256 token and maps its sub/name/email claims to an
// Identity. Any parse or validation failure is reported as ErrUnauthorized.
func (p *JWTProvider) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return p.secret, nil
	})
	if err != nil || !tok.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	return domain.Identity{ID: sub, Name: name, Email: email}, nil
}

// Token signs an identity into a bearer token. Used by tests and dev tooling.
func (p *JWTProvider) Token(id domain.Identity) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.ID,
		"name":  id.Name,
		"email": id.Email,
	})
	return t.SignedString(p.secret)
}
