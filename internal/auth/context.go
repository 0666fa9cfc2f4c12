package auth

import (
	"context"
	"strconv"
)

type UserContext struct {
	UserID string
	Role   string
}

// ID returns the numeric user id, 0 when it is not a number.
func (u UserContext) ID() int64 {
	id, _ := strconv.ParseInt(u.UserID, 10, 64)
	return id
}

type userKey struct{}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the caller set by Authenticate.
func UserFromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(userKey{}).(UserContext)
	return u, ok
}

// ActorID returns the authenticated user id for audit columns, nil for
// system callers such as the receipts listener.
func ActorID(ctx context.Context) *int64 {
	u, ok := UserFromContext(ctx)
	if !ok {
		return nil
	}
	id := u.ID()
	if id == 0 {
		return nil
	}
	return &id
}
