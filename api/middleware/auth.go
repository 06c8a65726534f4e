package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/umkmdelicious/backend/api/responses"
	pkgauth "github.com/umkmdelicious/backend/pkg/auth"
	"github.com/umkmdelicious/backend/pkg/config"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
	"github.com/umkmdelicious/backend/pkg/logger"
)

const demoTokenPrefix = "demo-token-"

// AdminAuth validates a bearer token and seeds the request context with the
// claims. Outside production, a demo token is accepted when the feature flag
// allows it, so the admin panel works without a seeded account.
func AdminAuth(cfg *config.Config, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if strings.HasPrefix(token, demoTokenPrefix) {
				if !cfg.FeatureFlags.AllowDemoAuth || cfg.App.IsProd() {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "demo access disabled"))
					return
				}
				ctx := context.WithValue(r.Context(), ctxIsAdmin, true)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg.JWT, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if !claims.IsAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxEmail, claims.Email)
			ctx = context.WithValue(ctx, ctxIsAdmin, claims.IsAdmin)

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
