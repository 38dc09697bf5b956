package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"keyword-shortener/model"
)

// ContactForm handles GET /contact.
func (h *Handler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "contact.html", pageData{})
}

// SubmitContact handles POST /contact. The submission is stored, then
// emailed to the operator; a transport failure turns into a flash message
// instead of an error response.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opCtx(r)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	msg := model.ContactMessage{
		ID:        uuid.New().String(),
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Message:   r.FormValue("message"),
		CreatedAt: time.Now(),
	}

	sendErr := h.email.SendContactMessage(msg.Name, msg.Email, msg.Message)
	msg.Delivered = sendErr == nil

	if err := h.messages.PutMessage(ctx, msg); err != nil {
		// The email already went out (or failed on its own); losing the
		// stored copy is not worth failing the request over.
		log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to store contact message")
	}

	if sendErr != nil {
		h.sessions.AddFlash(w, r, "Failed to send message: "+sendErr.Error())
	} else {
		h.sessions.AddFlash(w, r, "Your message has been sent! We'll get back to you soon.")
	}

	http.Redirect(w, r, "/contact", http.StatusFound)
}
