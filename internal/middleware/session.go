package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moodtrack/moodtrack-api/internal/model"
	"github.com/moodtrack/moodtrack-api/internal/payload"
	"github.com/moodtrack/moodtrack-api/internal/repository"
	"github.com/moodtrack/moodtrack-api/shared/auth"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "jwt"

type contextKey struct{}

var userContextKey contextKey

// RequireSession authenticates the request from the session cookie. The token
// is verified, resolved to a user record (public projection), and the user is
// attached to the request context. Anything short of that is a 401, including
// a validly-signed token whose subject no longer exists.
func RequireSession(
	jwtAuth *auth.JWTAuthenticator,
	users repository.UserRepository,
	logger *zerolog.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				respondMessage(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}

			userID, err := jwtAuth.VerifySessionToken(cookie.Value)
			if err != nil {
				respondMessage(w, http.StatusUnauthorized, "not authorized, token failed")
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				logger.Debug().Err(err).Str("user_id", userID).Msg("session user lookup failed")
				respondMessage(w, http.StatusUnauthorized, "not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to admin users. It must run after RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			respondMessage(w, http.StatusUnauthorized, "not authorized as admin")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user attached by RequireSession.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload.MessageResponse{Message: message})
}
