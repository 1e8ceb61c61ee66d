package middlewares

import (
	"context"

	"github.com/dropDatabas3/tgsecret/internal/auth"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyIdentity
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID devuelve el request ID del contexto, o "" si no hay.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func setIdentity(ctx context.Context, p *auth.TokenPayload) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, p)
}

// GetIdentity devuelve el payload del access token validado por RequireAuth,
// o nil si el request no pasó por él.
func GetIdentity(ctx context.Context) *auth.TokenPayload {
	if v, ok := ctx.Value(ctxKeyIdentity).(*auth.TokenPayload); ok {
		return v
	}
	return nil
}
