package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gridquest/gridquest-backend/internal/hub"
	"github.com/gridquest/gridquest-backend/internal/store"
	"github.com/gridquest/gridquest-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, loader store.Loader, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/sessions", CreateSession(h, loader, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
