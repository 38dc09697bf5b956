package session

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"keyword-shortener/config"
)

const (
	sessionName = "shortener_session"
	userKey     = "username"
)

// Manager holds one identity per client session in a signed cookie, plus
// one-shot flash messages shown on the next rendered page.
type Manager struct {
	store *sessions.CookieStore
}

func NewManager(cfg config.SessionConfig) *Manager {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
	}
	return &Manager{store: store}
}

// CurrentUser returns the active session identity, if any.
func (m *Manager) CurrentUser(r *http.Request) (string, bool) {
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	username, ok := sess.Values[userKey].(string)
	return username, ok && username != ""
}

// SetUser establishes the session identity for this client.
func (m *Manager) SetUser(w http.ResponseWriter, r *http.Request, username string) error {
	sess, _ := m.store.Get(r, sessionName)
	sess.Values[userKey] = username
	return sess.Save(r, w)
}

// ClearUser drops the session identity. It succeeds even when no session
// existed.
func (m *Manager) ClearUser(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, sessionName)
	delete(sess.Values, userKey)
	return sess.Save(r, w)
}

// AddFlash queues a message for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	sess, _ := m.store.Get(r, sessionName)
	sess.AddFlash(message)
	if err := sess.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to save flash message")
	}
}

// Flashes drains and returns the queued messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to clear flash messages")
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
