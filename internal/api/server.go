package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	chatapi "github.com/medchat/docchat-backend/internal/api/chat"
	"github.com/medchat/docchat-backend/internal/api/docs"
	documentapi "github.com/medchat/docchat-backend/internal/api/document"
	"github.com/medchat/docchat-backend/internal/api/middleware"
	sessionapi "github.com/medchat/docchat-backend/internal/api/session"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	sessionHandler *sessionapi.Handler,
	documentHandler *documentapi.Handler,
	chatHandler *chatapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// All API surface lives under the session scope
	r.Route("/sessions", func(r chi.Router) {
		sessionapi.RegisterRoutes(r, sessionHandler)
		documentapi.RegisterRoutes(r, documentHandler)
		chatapi.RegisterRoutes(r, chatHandler)
	})

	return r
}
