package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session routes under the /sessions prefix
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/", h.StartSession)
	r.Get("/{id}", h.GetSession)
	r.Delete("/{id}/data", h.ClearData)
	r.Get("/{id}/messages", h.GetHistory)
	r.Get("/{id}/export", h.ExportTranscript)
}
