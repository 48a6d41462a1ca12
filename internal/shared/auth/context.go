package auth

import "context"

type backendTokenKey struct{}

// WithBackendToken returns a context carrying the backend token of the
// current session. Outbound backend calls forward it as a Bearer header.
func WithBackendToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, backendTokenKey{}, token)
}

// BackendToken returns the token stored by WithBackendToken.
func BackendToken(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(backendTokenKey{}).(string)
	return token
}
