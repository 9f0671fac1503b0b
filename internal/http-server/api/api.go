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

	"VisitBot/bot/whatsapp"
	"VisitBot/internal/config"
	routeErrors "VisitBot/internal/http-server/handlers/errors"
	"VisitBot/internal/http-server/handlers/health"
	"VisitBot/internal/http-server/handlers/session"
	"VisitBot/internal/http-server/handlers/visit"
	whatsappHandler "VisitBot/internal/http-server/handlers/whatsapp"
	"VisitBot/internal/http-server/middleware/authenticate"
	"VisitBot/internal/http-server/middleware/timeout"
	"VisitBot/internal/lib/sl"
	"VisitBot/internal/ws"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	session.Core
	visit.Core
}

// NewRouter builds the HTTP routes. The webhook, health and websocket
// endpoints stay outside the bearer-token group.
func NewRouter(log *slog.Logger, handler Handler, bot *whatsapp.WhatsAppBot, hub *ws.Hub) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(routeErrors.NotFound(log))
	router.MethodNotAllowed(routeErrors.NotAllowed(log))

	router.Get("/health", health.Health())
	if bot != nil {
		router.Post("/webhook", whatsappHandler.WebhookHandler(log, bot))
	}
	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	router.Group(func(r chi.Router) {
		r.Use(timeout.Timeout(5))
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(authenticate.New(log, handler))

		r.Route("/api/v1", func(v1 chi.Router) {
			v1.Route("/sessions", func(r chi.Router) {
				r.Get("/{jid}", session.GetSession(log, handler))
				r.Delete("/{jid}", session.ResetSession(log, handler))
			})
			v1.Route("/visits", func(r chi.Router) {
				r.Get("/", visit.ListVisits(log, handler))
			})
		})
	})

	return router
}

// New serves the API until ctx is cancelled, then shuts down gracefully.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler, bot *whatsapp.WhatsAppBot, hub *ws.Hub) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(log, handler, bot, hub),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.httpServer.Serve(listener)
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	server.log.Info("stopping api server")
	if err = server.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if bot != nil {
		bot.Wait()
	}
	return nil
}
