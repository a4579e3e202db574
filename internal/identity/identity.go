// Package identity carries the opaque, already-validated caller identity
// supplied by the external session layer.
package identity

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Identity is the resolved caller: a numeric user id plus the role and
// tenant the session layer attached, when known. It is passed explicitly
// into every authorization and lifecycle call.
type Identity struct {
	UserID   snowflake.ID
	RoleID   *snowflake.ID
	TenantID *snowflake.ID
}

// IsZero reports whether no caller was resolved.
func (id Identity) IsZero() bool {
	return id.UserID == 0
}

type identityKey struct{}

// WithIdentity stores the caller identity in the context for handler
// plumbing. Services never read it implicitly.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller identity from context, if set.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
