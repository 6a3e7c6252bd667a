package session

import (
	"context"

	"github.com/google/uuid"

	"stocklens/internal/rbac"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the read surface of the session: who the caller is and the
// role the capability matrix is evaluated against.
type Identity struct {
	UserID uuid.UUID
	Role   rbac.Role
}

// WithIdentity attaches the caller's identity to the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the caller's identity from the request context.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
