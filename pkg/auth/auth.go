package auth

import (
	"context"

	jwt "github.com/golang-jwt/jwt/v4"
)

const (
	RoleLibrarian = "LIBRARIAN"
	RoleMember    = "MEMBER"
)

// Claims is the payload carried by every issued token.
// Subject holds the username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey int

const (
	contextKeyUsername contextKey = iota + 1
	contextKeyRole
	contextKeyToken
)

// SetAuthContext attaches the authenticated identity to the request context.
// Services receive identity explicitly through the context, never from
// process-wide state.
func SetAuthContext(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, contextKeyUsername, username)
	return context.WithValue(ctx, contextKeyRole, role)
}

// SetToken stores the raw bearer token so that logout and self-delete can
// revoke the session that carried the request.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKeyToken, token)
}

func Username(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyUsername).(string); ok {
		return v
	}
	return ""
}

func Role(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyRole).(string); ok {
		return v
	}
	return ""
}

func Token(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyToken).(string); ok {
		return v
	}
	return ""
}
