package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes under the /sessions prefix
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/{id}/chat", h.Chat)
}
