package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/alexsohr/autodoc/internal/config"
	"github.com/alexsohr/autodoc/internal/daemon"
	"github.com/alexsohr/autodoc/internal/events"
	"github.com/alexsohr/autodoc/internal/eventstore"
	"github.com/alexsohr/autodoc/internal/export"
	"github.com/alexsohr/autodoc/internal/forge"
	"github.com/alexsohr/autodoc/internal/generate"
	"github.com/alexsohr/autodoc/internal/gitfs"
	"github.com/alexsohr/autodoc/internal/llm"
	"github.com/alexsohr/autodoc/internal/metrics"
	"github.com/alexsohr/autodoc/internal/notify"
	"github.com/alexsohr/autodoc/internal/retry"
	"github.com/alexsohr/autodoc/internal/server/httpserver"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
	} `cmd:"" help:"Run the webhook server and generation daemon"`

	Generate struct {
		Owner  string `arg:"" help:"Repository owner"`
		Name   string `arg:"" help:"Repository name"`
		Branch string `short:"b" help:"Branch to snapshot (defaults to main)"`
	} `cmd:"" help:"Generate a wiki for one repository and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "serve":
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "generate <owner> <name>":
		if err := runGenerate(cfg); err != nil {
			slog.Error("Generate failed", "error", err)
			os.Exit(1)
		}
	}
}

// pipeline bundles everything needed to execute generation runs.
type pipeline struct {
	orchestrator *generate.Orchestrator
	recorder     *metrics.PrometheusRecorder
	registry     *prom.Registry
	store        eventstore.Store
	publisher    notify.Publisher
}

// buildPipeline wires the orchestrator and its dependencies from configuration.
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	var snapshot forge.SnapshotFetcher
	switch cfg.Forge.Snapshot {
	case config.SnapshotSourceGit:
		snapshot = gitfs.NewFetcher()
	default:
		snapshot = forge.NewGitHubClient(cfg.Forge, &http.Client{Timeout: cfg.Forge.Timeout})
	}

	channel, err := llm.NewWebsocketChannel(cfg.Model)
	if err != nil {
		return nil, err
	}

	var store eventstore.Store
	if cfg.Store.Path != "" {
		s, err := eventstore.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			slog.Warn("Run history store unavailable, continuing without persistence", "error", err)
		} else {
			store = s
		}
	}

	var publisher notify.Publisher = notify.NoopPublisher{}
	if cfg.Notify.URL != "" {
		p, err := notify.NewNATSPublisher(cfg.Notify)
		if err != nil {
			slog.Warn("Run notifications unavailable, continuing without publishing", "error", err)
		} else {
			publisher = p
		}
	}

	pages := generate.NewPageGenerator(channel, retry.FromConfig(cfg.Retry), recorder, cfg.Model)
	orchestrator := generate.NewOrchestrator(
		snapshot,
		channel,
		pages,
		export.NewExporter(cfg.Output),
		recorder,
		store,
		publisher,
		cfg.Model,
	)

	return &pipeline{
		orchestrator: orchestrator,
		recorder:     recorder,
		registry:     registry,
		store:        store,
		publisher:    publisher,
	}, nil
}

func (p *pipeline) close() {
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			slog.Error("Closing run store failed", "error", err)
		}
	}
	if err := p.publisher.Close(); err != nil {
		slog.Error("Closing publisher failed", "error", err)
	}
}

func runServe(cfg *config.Config) error {
	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.close()

	bus := events.NewBus()
	defer bus.Close()

	d, err := daemon.New(cfg, bus, p.orchestrator, CLI.Config)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg, httpserver.Options{
		Bus:      bus,
		Store:    p.store,
		Recorder: p.recorder,
		Registry: p.registry,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Start(ctx); err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	return d.Stop(shutdownCtx)
}

func runGenerate(cfg *config.Config) error {
	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.close()

	branch := CLI.Generate.Branch
	if branch == "" {
		branch = "main"
	}
	fullName := fmt.Sprintf("%s/%s", CLI.Generate.Owner, CLI.Generate.Name)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := p.orchestrator.Run(ctx, events.GenerationRequested{
		RunID:   uuid.NewString(),
		Trigger: events.TriggerManual,
		Repository: forge.Repository{
			FullName:      fullName,
			HTMLURL:       fmt.Sprintf("https://github.com/%s", fullName),
			DefaultBranch: branch,
		},
		Branch:      branch,
		RequestedAt: time.Now(),
	})

	if result.Err != nil {
		return result.Err
	}
	slog.Info("Wiki generated",
		"artifact", result.Artifact,
		"pages_total", result.PagesTotal,
		"pages_failed", result.PagesFailed)
	return nil
}
