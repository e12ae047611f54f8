package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes under the /sessions prefix
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/{id}/documents", h.Upload)
	r.Get("/{id}/documents", h.List)
	r.Delete("/{id}/documents/{document_id}", h.Remove)
}
