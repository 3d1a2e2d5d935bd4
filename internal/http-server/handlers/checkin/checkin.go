package checkin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkin/entity"
	"checkin/internal/qr"
	"checkin/lib/api/response"
	"checkin/lib/sl"
)

const maxImageSize = 10 << 20

type Core interface {
	Validate(ctx context.Context, code string) (*entity.ValidationView, error)
	ValidateImage(ctx context.Context, r io.Reader) (*entity.ValidationView, error)
}

// Validate checks a decoded code. Rejections are regular responses carrying
// the result; only storage faults answer with an error status.
func Validate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.checkin"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.ValidateRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}

		view, err := handler.Validate(r.Context(), req.Code)
		if err != nil {
			logger.Error("validate", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Validation not saved"))
			return
		}
		render.JSON(w, r, response.Message(view, view.Message))
	}
}

// ValidateImage accepts a multipart upload in the "image" field
func ValidateImage(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.checkin"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
		file, _, err := r.FormFile("image")
		if err != nil {
			logger.Warn("read upload", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Image not provided"))
			return
		}
		defer file.Close()

		view, err := handler.ValidateImage(r.Context(), file)
		if err != nil {
			switch {
			case errors.Is(err, qr.ErrNoCode):
				logger.Info("no code in image")
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, response.Error("No QR code found in image"))
			case errors.Is(err, qr.ErrUnavailable):
				logger.Warn("decoder unavailable", sl.Err(err))
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("Scanning not available"))
			default:
				logger.Error("validate image", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("Validation not saved"))
			}
			return
		}
		render.JSON(w, r, response.Message(view, view.Message))
	}
}
