package auth

import (
	"context"

	"github.com/2beens/gymtracker/internal/apperr"

	"github.com/google/uuid"
)

// Capability is a permission claim carried by the verified bearer token.
type Capability string

const (
	CapAdmin Capability = "admin"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID    `json:"user_id"`
	Caps   []Capability `json:"caps"`
}

func (p *Principal) Can(capability Capability) bool {
	if p == nil {
		return false
	}
	for _, c := range p.Caps {
		if c == capability {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok && p != nil
}

var (
	ErrNotAuthenticated = apperr.Unauthenticated("authentication required")
	ErrNotAllowed       = apperr.Forbidden("insufficient permissions")
)

// Authenticated returns the caller or ErrNotAuthenticated.
func Authenticated(ctx context.Context) (*Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return p, nil
}

// Require returns the caller when it carries the capability.
func Require(ctx context.Context, capability Capability) (*Principal, error) {
	p, err := Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !p.Can(capability) {
		return nil, ErrNotAllowed
	}
	return p, nil
}
