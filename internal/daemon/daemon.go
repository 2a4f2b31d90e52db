// Package daemon runs the long-lived AutoDoc process: it consumes generation
// requests from the event bus, executes them one at a time, and owns the
// scheduler and configuration watcher lifecycles.
package daemon

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alexsohr/autodoc/internal/config"
	"github.com/alexsohr/autodoc/internal/events"
	"github.com/alexsohr/autodoc/internal/generate"
	"github.com/alexsohr/autodoc/internal/logfields"
)

// Runner executes one generation run. Satisfied by *generate.Orchestrator.
type Runner interface {
	Run(ctx context.Context, req events.GenerationRequested) *generate.RunResult
}

// Daemon wires the event bus consumer, scheduler, and config watcher.
type Daemon struct {
	cfg        atomic.Pointer[config.Config]
	bus        *events.Bus
	runner     Runner
	workers    WorkerGroup
	scheduler  *Scheduler
	watcher    *config.Watcher
	cancelRuns context.CancelFunc
	unsub      func()
}

// New constructs a daemon. The config watcher is optional (nil configPath
// disables hot reload).
func New(cfg *config.Config, bus *events.Bus, runner Runner, configPath string) (*Daemon, error) {
	d := &Daemon{
		bus:    bus,
		runner: runner,
	}
	d.cfg.Store(cfg)

	if cfg.Schedule.Enabled {
		sched, err := NewScheduler(bus)
		if err != nil {
			return nil, err
		}
		d.scheduler = sched
	}

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, d.applyConfig)
		if err != nil {
			return nil, err
		}
		d.watcher = watcher
	}

	return d, nil
}

// applyConfig picks up reloadable settings. Listener and store settings
// require a restart; the schedule repository list takes effect on the next
// tick via the stored config.
func (d *Daemon) applyConfig(cfg *config.Config) {
	d.cfg.Store(cfg)
	slog.Info("Daemon configuration updated")
}

// Start launches the consumer loop and the optional scheduler and watcher.
func (d *Daemon) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancelRuns = cancel

	ch, unsub := events.Subscribe[events.GenerationRequested](d.bus, 16)
	d.unsub = unsub
	d.workers.Go(func() { d.consume(runCtx, ch) })

	cfg := d.cfg.Load()
	if d.scheduler != nil {
		if _, err := d.scheduler.ScheduleRegeneration(cfg.Schedule.Interval, cfg.Schedule.Repositories); err != nil {
			return err
		}
		d.scheduler.Start()
	}

	if d.watcher != nil {
		if err := d.watcher.Start(runCtx); err != nil {
			return err
		}
	}

	slog.Info("Daemon started",
		slog.Bool("schedule", d.scheduler != nil),
		slog.Bool("config_watch", d.watcher != nil))
	return nil
}

// consume executes queued generation requests sequentially. Runs are
// serialized: a busy pipeline applies backpressure to the bus buffer rather
// than generating the same repository concurrently.
func (d *Daemon) consume(ctx context.Context, ch <-chan events.GenerationRequested) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-ch:
			if !ok {
				return
			}
			result := d.runner.Run(ctx, req)
			slog.Debug("Generation request drained",
				logfields.RunID(result.RunID),
				logfields.Status(result.Status))
		}
	}
}

// Stop shuts down in dependency order: stop producing (watcher, scheduler),
// stop accepting (unsubscribe), then wait for in-flight work.
func (d *Daemon) Stop(ctx context.Context) error {
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.scheduler != nil {
		if err := d.scheduler.Stop(); err != nil {
			slog.Error("Scheduler shutdown failed", logfields.Error(err))
		}
	}
	if d.unsub != nil {
		d.unsub()
	}
	if d.cancelRuns != nil {
		d.cancelRuns()
	}

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return d.workers.StopAndWait(waitCtx)
}
