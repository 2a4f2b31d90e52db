// Package httpserver wires the AutoDoc HTTP endpoints: the GitHub webhook
// receiver plus health, metrics, and run history.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexsohr/autodoc/internal/config"
	derrors "github.com/alexsohr/autodoc/internal/errors"
	"github.com/alexsohr/autodoc/internal/events"
	"github.com/alexsohr/autodoc/internal/eventstore"
	"github.com/alexsohr/autodoc/internal/logfields"
	"github.com/alexsohr/autodoc/internal/metrics"
	handlers "github.com/alexsohr/autodoc/internal/server/handlers"
	smw "github.com/alexsohr/autodoc/internal/server/middleware"
)

// Options carries the injectable server dependencies.
type Options struct {
	Bus      *events.Bus
	Store    eventstore.Store
	Recorder metrics.Recorder
	Registry *prom.Registry
}

// Server manages the HTTP listener and endpoint wiring.
type Server struct {
	cfg  *config.Config
	opts Options
	srv  *http.Server

	webhookHandlers    *handlers.WebhookHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, opts Options) *Server {
	s := &Server{
		cfg:  cfg,
		opts: opts,
	}

	s.webhookHandlers = handlers.NewWebhookHandlers(cfg.Webhook, opts.Bus, opts.Recorder)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Store)
	s.mchain = smw.Chain(slog.Default(), derrors.NewHTTPErrorAdapter(slog.Default()))

	return s
}

// Handler builds the route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.webhookHandlers.HandleGitHubWebhook)
	mux.HandleFunc("/webhook/github", s.webhookHandlers.HandleGitHubWebhook)
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealth)
	mux.HandleFunc("/api/runs", s.monitoringHandlers.HandleRuns)
	if s.opts.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}
	return s.mchain(mux)
}

// Start binds the listener and begins serving. Binding happens before the
// serve goroutine starts so an occupied port fails fast.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("bind port %d: %w", s.cfg.Server.Port, err)
	}

	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("HTTP server listening", slog.String("addr", addr))
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped unexpectedly", logfields.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
