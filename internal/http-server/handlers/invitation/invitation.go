package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkin/entity"
	"checkin/impl/core"
	"checkin/lib/api/response"
	"checkin/lib/sl"
)

type Core interface {
	IssueInvitation(ctx context.Context, req *entity.InvitationRequest) (*entity.IssuedInvitation, error)
	Invitations(filter entity.InvitationFilter) []entity.Invitation
	Invitation(id string) (*entity.Invitation, error)
	InvitationQR(id string) ([]byte, *entity.Invitation, error)
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.invitation"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.InvitationRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}
		logger = logger.With(
			slog.String("graduate_id", req.GraduateId),
			slog.String("kind", string(req.Kind)),
		)

		issued, err := handler.IssueInvitation(r.Context(), &req)
		if err != nil {
			logger.Error("issue invitation", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Invitation not saved"))
			return
		}
		logger.With(slog.String("id", issued.Invitation.Id)).Info("invitation issued")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(issued))
	}
}

// List accepts the optional query parameters q (search term) and
// status (active or used)
func List(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := entity.InvitationFilter{
			Search: r.URL.Query().Get("q"),
			Status: entity.InvitationStatus(r.URL.Query().Get("status")),
		}
		switch filter.Status {
		case "", entity.StatusActive, entity.StatusUsed:
		default:
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("Unknown status: %s", filter.Status)))
			return
		}
		render.JSON(w, r, response.Ok(handler.Invitations(filter)))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		inv, err := handler.Invitation(id)
		if err != nil {
			lookupFailed(log, w, r, id, err)
			return
		}
		render.JSON(w, r, response.Ok(inv))
	}
}

// QRCode streams the PNG image of the invitation code as an attachment
func QRCode(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		png, inv, err := handler.InvitationQR(id)
		if err != nil {
			lookupFailed(log, w, r, id, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inv.FileName()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

func lookupFailed(log *slog.Logger, w http.ResponseWriter, r *http.Request, id string, err error) {
	logger := log.With(
		sl.Module("http.handlers.invitation"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("id", id),
	)
	if errors.Is(err, core.ErrNotFound) {
		logger.Debug("invitation not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Invitation not found"))
		return
	}
	logger.Error("invitation lookup", sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error(fmt.Sprintf("Request failed: %v", err)))
}
