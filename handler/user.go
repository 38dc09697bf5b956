package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"keyword-shortener/auth"
)

// RegisterForm handles GET /register.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", pageData{})
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	err := h.auth.Register(ctx, username, password)
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		h.sessions.AddFlash(w, r, "Username already exists. Please choose another.")
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	case errors.Is(err, auth.ErrEmptyUsername):
		h.sessions.AddFlash(w, r, err.Error())
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	case err != nil:
		log.Error().Err(err).Str("username", username).Msg("Failed to register user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.sessions.AddFlash(w, r, "Registration successful! You can now log in.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// LoginForm handles GET /login.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", pageData{})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	err := h.auth.Login(ctx, username, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.sessions.AddFlash(w, r, "Invalid username or password.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	case err != nil:
		log.Error().Err(err).Str("username", username).Msg("Failed to verify login")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.SetUser(w, r, username); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to establish session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Info().Str("username", username).Msg("User logged in")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout handles GET /logout. Clearing succeeds even without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearUser(w, r); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
	}
	h.sessions.AddFlash(w, r, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusFound)
}
