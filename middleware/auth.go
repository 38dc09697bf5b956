package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"keyword-shortener/session"
)

// SessionAuth gates routes behind an active session identity.
type SessionAuth struct {
	sessions *session.Manager
}

func NewSessionAuth(sessions *session.Manager) *SessionAuth {
	return &SessionAuth{sessions: sessions}
}

// Protect redirects to the login page with a flash message when the caller
// has no session identity.
func (sa *SessionAuth) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sa.sessions.CurrentUser(r); !ok {
			log.Debug().Str("path", r.URL.Path).Msg("Unauthenticated request, redirecting to login")
			sa.sessions.AddFlash(w, r, "You must be logged in to do that.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
