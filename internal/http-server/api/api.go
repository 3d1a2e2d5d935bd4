package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"checkin/internal/config"
	"checkin/internal/http-server/handlers/checkin"
	handlerErrors "checkin/internal/http-server/handlers/errors"
	"checkin/internal/http-server/handlers/graduate"
	"checkin/internal/http-server/handlers/invitation"
	"checkin/internal/http-server/handlers/session"
	"checkin/internal/http-server/handlers/stats"
	"checkin/internal/http-server/middleware/authenticate"
	"checkin/internal/http-server/middleware/timeout"
	"checkin/lib/sl"
)

const requestTimeout = 5 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	session.Core
	graduate.Core
	invitation.Core
	checkin.Core
	stats.Core
}

// NewRouter builds the routes of the check-in API
func NewRouter(log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(timeout.Timeout(requestTimeout))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(handlerErrors.NotFound(log))
	router.MethodNotAllowed(handlerErrors.NotAllowed(log))

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Post("/login", session.Login(log, handler))

		rootApi.Group(func(private chi.Router) {
			private.Use(authenticate.New(log, handler))
			private.Post("/logout", session.Logout(log, handler))

			private.Route("/graduates", func(gr chi.Router) {
				gr.Get("/", graduate.List(log, handler))
				gr.Post("/", graduate.Create(log, handler))
				gr.Get("/{id}", graduate.Get(log, handler))
				gr.Get("/{id}/invitations", graduate.Invitations(log, handler))
			})
			private.Route("/invitations", func(inv chi.Router) {
				inv.Get("/", invitation.List(log, handler))
				inv.Post("/", invitation.Create(log, handler))
				inv.Get("/{id}", invitation.Get(log, handler))
				inv.Get("/{id}/qr", invitation.QRCode(log, handler))
			})
			private.Route("/validate", func(v chi.Router) {
				v.Post("/", checkin.Validate(log, handler))
				v.Post("/image", checkin.ValidateImage(log, handler))
			})
			private.Get("/stats", stats.Get(log, handler))
		})
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler) (*Server, error) {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      NewRouter(log, handler),
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return &server, nil
}

// Start listens on the configured address and blocks until Shutdown
func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIp, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	if err = s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
