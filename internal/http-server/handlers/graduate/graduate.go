package graduate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkin/entity"
	"checkin/impl/core"
	"checkin/lib/api/response"
	"checkin/lib/sl"
)

type Core interface {
	RegisterGraduate(ctx context.Context, req *entity.GraduateRequest) (*entity.Graduate, error)
	Graduates() []entity.Graduate
	Graduate(id string) (*entity.Graduate, error)
	GraduateInvitations(id string) ([]entity.Invitation, error)
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.graduate"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.GraduateRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}

		graduate, err := handler.RegisterGraduate(r.Context(), &req)
		if err != nil {
			logger.Error("register graduate", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Graduate not saved"))
			return
		}
		logger.With(slog.String("id", graduate.Id)).Info("graduate registered")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(graduate))
	}
}

func List(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(handler.Graduates()))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		graduate, err := handler.Graduate(id)
		if err != nil {
			notFound(log, w, r, id, err)
			return
		}
		render.JSON(w, r, response.Ok(graduate))
	}
}

func Invitations(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		invitations, err := handler.GraduateInvitations(id)
		if err != nil {
			notFound(log, w, r, id, err)
			return
		}
		render.JSON(w, r, response.Ok(invitations))
	}
}

func notFound(log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, err error) {
	log.With(
		sl.Module("http.handlers.graduate"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("id", id),
	).Debug("graduate lookup", sl.Err(err))
	if errors.Is(err, core.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Graduate not found"))
		return
	}
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error(err.Error()))
}
