// Package server wires the relay handlers into a chi router and runs the
// HTTP listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"relay/config"
	"relay/generate"
	"relay/payment"
	"relay/respond"
)

const serviceName = "checkout-relay"

// Version is set at build time with -ldflags.
var Version = "dev"

type Server struct {
	cfg       *config.Config
	log       zerolog.Logger
	router    chi.Router
	startedAt time.Time
}

func New(cfg *config.Config, gen *generate.Service, pay *payment.Service, log zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log,
		router:    chi.NewRouter(),
		startedAt: time.Now(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(accessLog(log))
	s.router.Use(recoverJSON(log))
	s.router.Use(cors(cfg.AllowedOrigins))
	s.router.Use(middleware.RequestSize(cfg.MaxBodyBytes))

	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	generate.RegisterRoutes(s.router, gen)
	payment.RegisterRoutes(s.router, pay)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond.Text(w, http.StatusOK, "Backend is running!")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	creds := s.cfg.Credentials
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": serviceName,
		"version": Version,
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
		"configured": map[string]bool{
			"generation": creds.HasGeneration(),
			"payment":    creds.HasPayment(),
		},
	})
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		// Long enough for one upstream call plus encoding.
		WriteTimeout: s.cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
