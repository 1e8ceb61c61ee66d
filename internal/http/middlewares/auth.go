package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/tgsecret/internal/auth"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
)

// RequireAuth valida Authorization: Bearer <JWT> y guarda el payload del
// access token en el contexto. Si el token falta o es inválido responde 401.
func RequireAuth(issuer *auth.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httpx.WriteError(w, http.StatusUnauthorized, "token_missing", "falta el bearer token", httpx.CodeTokenMissing)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			p, err := issuer.VerifyAccess(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token inválido o expirado", httpx.CodeInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(setIdentity(r.Context(), p)))
		})
	}
}

// RequireAdmin exige que el payload autenticado tenga isAdmin. Debe usarse
// después de RequireAuth.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetIdentity(r.Context())
			if id == nil {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "no autenticado", httpx.CodeTokenMissing)
				return
			}
			if !id.IsAdmin {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "se requiere rol admin", httpx.CodeForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
