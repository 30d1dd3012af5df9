package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/partypop/partypop/internal/content"
	"github.com/partypop/partypop/internal/middleware"
	"github.com/partypop/partypop/internal/services/room"
	"github.com/partypop/partypop/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Hub        *ws.Hub
	Dispatcher *ws.Dispatcher
	Content    content.Provider
	Rooms      *room.Controller
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/health", healthHandler(cfg.Content)).Methods(http.MethodGet)
	r.HandleFunc("/stats", statsHandler(cfg.Hub, cfg.Rooms)).Methods(http.MethodGet)

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(cfg.Hub, cfg.Dispatcher, cfg.Logger, w, req)
	}).Methods(http.MethodGet)

	return r
}
