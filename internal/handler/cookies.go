package handler

import (
	"net/http"
	"time"

	"github.com/moodtrack/moodtrack-api/internal/middleware"
)

// SessionCookies writes and clears the session cookie. Secure and Domain are
// environment-dependent; everything else is fixed by the cookie contract.
type SessionCookies struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

// Set stores the session token in the cookie for the configured lifetime.
func (c SessionCookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
		MaxAge:   int(c.MaxAge.Seconds()),
		Expires:  time.Now().Add(c.MaxAge),
	})
}

// Clear overwrites the cookie with an empty value and a past expiry, using
// the same attributes as Set so the browser deletes it.
func (c SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
