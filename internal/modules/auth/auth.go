package auth

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Identity is the authenticated staff member attached to a request. The
// order and payment modules snapshot it as createdBy/receivedBy.
type Identity struct {
	ID   uuid.UUID
	Name string
}

type contextKey struct{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the caller identity set by the middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
