package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// AuthMiddleware holds the app Server so middleware can access shared deps
// like Logger and Config.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth enforces authentication using Clerk.
//
// Clerk's net/http middleware parses and validates the Authorization bearer
// token and stores session claims in the request context. On failure the
// failure handler writes the standard error shape directly, because Echo's
// error funnel is not reachable from inside a wrapped net/http middleware.
// On success the Clerk subject is copied into Echo context as user_id.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)

				response := errs.HTTPError{
					Code:    "UNAUTHORIZED",
					Message: "Unauthorized",
					Status:  http.StatusUnauthorized,
				}

				if err := json.NewEncoder(w).Encode(response); err != nil {
					auth.server.Logger.Error().
						Err(err).
						Str("function", "RequireAuth").
						Msg("failed to write authorization failure response")
				}
			}))))(
		func(c echo.Context) error {
			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				auth.server.Logger.Error().
					Str("function", "RequireAuth").
					Str("request_id", GetRequestID(c)).
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			c.Set(UserIDKey, claims.Subject)

			return next(c)
		})
}

// RequireAdmin gates the dev-only endpoints (category creation) behind a
// shared admin secret header. It runs after RequireAuth.
func (auth *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret := auth.server.Config.Auth.AdminSecret
		if secret == "" || c.Request().Header.Get("X-Admin-Secret") != secret {
			return errs.NewForbiddenError("Forbidden", false)
		}
		return next(c)
	}
}
