package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Tertoey/roomBooking/internal/adapters/identity"
	"github.com/Tertoey/roomBooking/internal/domain"
)

func TestJWT_RoundTrip(t *testing.T) {
	p := identity.NewJWT("test-secret")

	tok, err := p.Token(domain.Identity{ID: "user-1", Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	id, err := p.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.ID != "user-1" || id.Name != "Ana" || id.Email != "ana@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestJWT_RejectsBadTokens(t *testing.T) {
	p := identity.NewJWT("test-secret")
	other := identity.NewJWT("other-secret")

	tok, err := other.Token(domain.Identity{ID: "user-1"})
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	cases := map[string]string{
		"wrong secret": tok,
		"garbage":      "not.a.jwt",
		"empty":        "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Authenticate(context.Background(), raw); !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestJWT_RequiresSubject(t *testing.T) {
	p := identity.NewJWT("test-secret")
	tok, err := p.Token(domain.Identity{Name: "no-id"})
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if _, err := p.Authenticate(context.Background(), tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty sub, got %v", err)
	}
}
