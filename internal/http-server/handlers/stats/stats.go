package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"checkin/entity"
	"checkin/lib/api/response"
)

type Core interface {
	Stats() entity.Stats
}

func Get(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(handler.Stats()))
	}
}
