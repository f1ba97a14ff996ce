package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxRole       contextKey = "actor_role"
	ctxDepartment contextKey = "actor_department"
	ctxAccessID   contextKey = "access_id"
)

// ActorFromContext rebuilds the authenticated actor seeded by the auth
// middleware. A request that skipped auth yields a zero actor, which every
// policy check denies.
func ActorFromContext(ctx context.Context) authz.Actor {
	if ctx == nil {
		return authz.Actor{}
	}
	actor := authz.Actor{}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		if id, err := uuid.Parse(v); err == nil {
			actor.UserID = id
		}
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		actor.Role = enums.Role(v)
	}
	if v, ok := ctx.Value(ctxDepartment).(string); ok {
		actor.Department = enums.Department(v)
	}
	return actor
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the session identifier bound to the bearer
// token, used by logout to revoke the right session.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithActor injects an authenticated actor into the context. Mostly useful in
// tests that exercise handlers without the auth middleware.
func WithActor(ctx context.Context, actor authz.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, actor.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(actor.Role))
	return context.WithValue(ctx, ctxDepartment, string(actor.Department))
}

// WithAccessID injects the session identifier into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
