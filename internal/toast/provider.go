package toast

import (
	"context"
	"errors"
)

// ErrNoProvider is the panic value of FromContext when no Manager was
// installed.
var ErrNoProvider = errors.New("toast: FromContext called outside of a toast provider")

type managerKey struct{}

type sessionKey struct{}

// NewContext returns a copy of ctx carrying m.
func NewContext(ctx context.Context, m Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// FromContext returns the Manager installed by NewContext.
// It panics with ErrNoProvider if there is none.
func FromContext(ctx context.Context) Manager {
	m, ok := ctx.Value(managerKey{}).(Manager)
	if !ok || m == nil {
		panic(ErrNoProvider)
	}
	return m
}

// Success adds a success toast to the Manager in ctx.
func Success(ctx context.Context, message string) string {
	return mustAdd(ctx, message, KindSuccess)
}

// Error adds an error toast to the Manager in ctx.
func Error(ctx context.Context, message string) string {
	return mustAdd(ctx, message, KindError)
}

// Info adds an info toast to the Manager in ctx.
func Info(ctx context.Context, message string) string {
	return mustAdd(ctx, message, KindInfo)
}

func mustAdd(ctx context.Context, message string, kind Kind) string {
	id, err := FromContext(ctx).Add(message, kind)
	if err != nil {
		// kind is always one of the constants above
		panic(err)
	}
	return id
}

// WithSession records the visitor session id in ctx.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext returns the visitor session id set by Middleware.
func SessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}
