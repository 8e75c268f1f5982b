package session

import "context"

type sessionContextKey struct{}

// WithSession stashes a session in the context.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext retrieves the session stashed by the middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*Session)
	return sess, ok
}

// OwnerIDFromContext returns the owner of the session in the context.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	sess, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return sess.OwnerID, true
}
