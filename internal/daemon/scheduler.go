package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/alexsohr/autodoc/internal/config"
	"github.com/alexsohr/autodoc/internal/events"
	"github.com/alexsohr/autodoc/internal/forge"
	"github.com/alexsohr/autodoc/internal/logfields"
)

// Scheduler wraps gocron for periodic wiki regeneration of configured
// repositories. Each tick publishes one GenerationRequested per repository;
// the daemon's consumer loop serializes the actual runs.
type Scheduler struct {
	scheduler gocron.Scheduler
	bus       *events.Bus
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(bus *events.Bus) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		bus:       bus,
	}, nil
}

// ScheduleRegeneration registers the periodic regeneration job.
// Returns the job ID for later management.
func (s *Scheduler) ScheduleRegeneration(interval time.Duration, repos []config.RepositoryRef) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.regenerate, repos),
		gocron.WithName("wiki-regeneration"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create regeneration job: %w", err)
	}

	return job.ID().String(), nil
}

// regenerate is called by gocron on every tick.
func (s *Scheduler) regenerate(repos []config.RepositoryRef) {
	for _, ref := range repos {
		req := events.GenerationRequested{
			RunID:       uuid.NewString(),
			Trigger:     events.TriggerSchedule,
			Repository:  repositoryFromRef(ref),
			Branch:      ref.Branch,
			RequestedAt: time.Now(),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := s.bus.Publish(ctx, req)
		cancel()
		if err != nil {
			slog.Error("Failed to queue scheduled regeneration",
				logfields.Repository(req.Repository.FullName),
				logfields.Error(err))
			continue
		}
		slog.Info("Scheduled regeneration queued",
			logfields.RunID(req.RunID),
			logfields.Repository(req.Repository.FullName))
	}
}

// repositoryFromRef builds the repository identity for a configured entry.
func repositoryFromRef(ref config.RepositoryRef) forge.Repository {
	htmlURL := ref.URL
	if htmlURL == "" {
		htmlURL = fmt.Sprintf("https://github.com/%s/%s", ref.Owner, ref.Name)
	}
	branch := ref.Branch
	if branch == "" {
		branch = "main"
	}
	return forge.Repository{
		FullName:      fmt.Sprintf("%s/%s", ref.Owner, ref.Name),
		HTMLURL:       htmlURL,
		DefaultBranch: branch,
	}
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
