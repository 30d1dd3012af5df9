package api

import (
	"net/http"

	"github.com/partypop/partypop/internal/api/response"
	"github.com/partypop/partypop/internal/content"
	"github.com/partypop/partypop/internal/services/room"
	"github.com/partypop/partypop/internal/ws"
)

// healthHandler reports liveness plus content backend connectivity. A dead
// content backend degrades the status instead of failing it, because rooms
// keep working without round content.
func healthHandler(provider content.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := provider.CheckHealth(r.Context()); err != nil {
			response.JSON(w, http.StatusOK, response.Health{
				Status: "degraded",
				Reason: "content backend unreachable: " + err.Error(),
			})
			return
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
	}
}

func statsHandler(hub *ws.Hub, rooms *room.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Stats{
			Rooms:   rooms.Registry().Count(),
			Clients: hub.ClientCount(),
		})
	}
}
