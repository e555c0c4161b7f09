package middlewares

import (
	"context"

	"github.com/openshelf/elibrary/internal/session"
)

const sessionKey ctxKey = 1

func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the authenticated session attached by LoadSession, if any.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok
}
