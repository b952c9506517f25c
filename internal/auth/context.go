package auth

import (
	"context"
)

// PublicActor is the actor recorded when no staff user is
// authenticated, for example on public submissions.
const PublicActor = "Khách"

// UserContext holds authenticated staff user information
type UserContext struct {
	Username string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// CurrentActor resolves the actor name for audit trail entries: the
// authenticated staff username, or PublicActor when the request is
// unauthenticated.
type CurrentActor interface {
	Actor(ctx context.Context) string
}

// ContextActor resolves the actor from the request context
type ContextActor struct{}

// Actor returns the authenticated username or PublicActor
func (ContextActor) Actor(ctx context.Context) string {
	if user, ok := FromContext(ctx); ok && user != nil && user.Username != "" {
		return user.Username
	}
	return PublicActor
}

// StaticActor always resolves to a fixed name. Used in tests and
// background jobs.
type StaticActor string

// Actor returns the fixed name
func (a StaticActor) Actor(ctx context.Context) string {
	return string(a)
}
