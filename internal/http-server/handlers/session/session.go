package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkin/entity"
	"checkin/impl/auth"
	"checkin/lib/api/cont"
	"checkin/lib/api/response"
	"checkin/lib/sl"
)

type Core interface {
	Login(username, password string) (*entity.User, error)
	Logout(token string)
}

func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.session")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.LoginRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("bind request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}
		logger = logger.With(slog.String("username", req.Username))

		user, err := handler.Login(req.Username, req.Password)
		if err != nil {
			logger.Warn("login failed", sl.Err(err))
			if errors.Is(err, auth.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Invalid username or password"))
				return
			}
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Login not available"))
			return
		}
		logger.Info("user logged in")

		render.JSON(w, r, response.Ok(user))
	}
}

func Logout(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := cont.GetUser(r.Context())
		handler.Logout(user.Token)
		log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("username", user.Username),
		).Info("user logged out")

		render.JSON(w, r, response.Ok(nil))
	}
}
