package auth

import (
	"context"

	"github.com/nwhite/newswire/internal/model"
)

// Identity is the per-request resolved caller: anonymous or a loaded user.
// The dispatcher resolves it once, before policy evaluation, and threads it
// through the request context — there is no process-wide "current user".
type Identity struct {
	User *model.User
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// Authenticated reports whether the caller is a logged-in user.
func (id Identity) Authenticated() bool {
	return id.User != nil
}

type contextKey struct{}

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext retrieves the identity resolved by the dispatcher.
// Requests that bypass the dispatcher read as anonymous.
func IdentityFromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok {
		return Anonymous
	}
	return id
}
