package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"keyword-shortener/shortener"
	"keyword-shortener/store"
)

// Shorten handles POST /shorten. The route is session-gated; the middleware
// guarantees an identity is present.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	owner, _ := h.sessions.CurrentUser(r)
	keyword := r.FormValue("keyword")
	rawURL := r.FormValue("url")

	link, err := h.registry.Create(ctx, keyword, rawURL, owner)
	switch {
	case errors.Is(err, store.ErrKeywordTaken):
		h.sessions.AddFlash(w, r, "Keyword already exists. Choose another one.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case errors.Is(err, shortener.ErrEmptyKeyword), errors.Is(err, shortener.ErrEmptyURL):
		h.sessions.AddFlash(w, r, err.Error())
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case err != nil:
		log.Error().Err(err).Str("keyword", keyword).Msg("Failed to create short link")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "index.html", pageData{
		Keyword:  link.Keyword,
		ShortURL: fmt.Sprintf("%s/%s", h.baseURL, link.Keyword),
	})
}

// Redirect handles GET /{keyword}.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	keyword := mux.Vars(r)["keyword"]

	originalURL, err := h.registry.Resolve(ctx, keyword)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Warn().Str("keyword", keyword).Msg("URL not found")
		http.Error(w, "URL not found.", http.StatusNotFound)
		return
	case errors.Is(err, shortener.ErrExpired):
		log.Info().Str("keyword", keyword).Msg("Link expired")
		http.Error(w, "This link has expired.", http.StatusNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("keyword", keyword).Msg("Failed to resolve keyword")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("keyword", keyword).
		Str("original_url", originalURL).
		Str("remote_addr", r.RemoteAddr).
		Msg("Redirecting")

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// Dashboard handles GET /dashboard, listing the caller's own links.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	owner, _ := h.sessions.CurrentUser(r)

	links, err := h.registry.ListForOwner(ctx, owner)
	if err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("Failed to list links")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "dashboard.html", pageData{Links: links})
}

// QRCode handles GET /qr/{keyword}, serving a PNG QR code of the short link
// while the link is alive. Dead keywords get the same 404s as the redirect.
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	keyword := mux.Vars(r)["keyword"]

	if _, err := h.registry.Resolve(ctx, keyword); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "URL not found.", http.StatusNotFound)
		case errors.Is(err, shortener.ErrExpired):
			http.Error(w, "This link has expired.", http.StatusNotFound)
		default:
			log.Error().Err(err).Str("keyword", keyword).Msg("Failed to resolve keyword for QR")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/%s", h.baseURL, keyword), qrcode.Medium, 256)
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("Failed to generate QR code")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
	}
}
