package generate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexsohr/autodoc/internal/config"
	derrors "github.com/alexsohr/autodoc/internal/errors"
	"github.com/alexsohr/autodoc/internal/events"
	"github.com/alexsohr/autodoc/internal/eventstore"
	"github.com/alexsohr/autodoc/internal/export"
	"github.com/alexsohr/autodoc/internal/forge"
	"github.com/alexsohr/autodoc/internal/llm"
	"github.com/alexsohr/autodoc/internal/logfields"
	"github.com/alexsohr/autodoc/internal/markdown"
	"github.com/alexsohr/autodoc/internal/metrics"
	"github.com/alexsohr/autodoc/internal/notify"
	"github.com/alexsohr/autodoc/internal/wiki"
)

// Run statuses recorded in history and exposed to metrics.
const (
	StatusOK              = "ok"
	StatusError           = "error"
	StatusConfigError     = "config_error"
	StatusValidationError = "validation_error"
	StatusTransportError  = "transport_error"
	StatusParseError      = "parse_error"
)

// RunResult is the terminal outcome of one generation run.
type RunResult struct {
	RunID       string
	Repository  string
	Trigger     events.Trigger
	Status      string
	PagesTotal  int
	PagesFailed int
	Artifact    string
	Err         error
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Orchestrator drives one generation run end to end: snapshot, structure
// proposal, parsing, page generation, export, and outcome recording.
//
// Structure failures abort the run; individual page failures only degrade it.
type Orchestrator struct {
	snapshot  forge.SnapshotFetcher
	channel   llm.Channel
	pages     *PageGenerator
	exporter  *export.Exporter
	recorder  metrics.Recorder
	store     eventstore.Store
	publisher notify.Publisher
	language  string
}

// NewOrchestrator wires an orchestrator. Store and publisher may be nil, in
// which case history persistence and notification are skipped.
func NewOrchestrator(
	snapshot forge.SnapshotFetcher,
	channel llm.Channel,
	pages *PageGenerator,
	exporter *export.Exporter,
	rec metrics.Recorder,
	store eventstore.Store,
	publisher notify.Publisher,
	mc config.ModelConfig,
) *Orchestrator {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if publisher == nil {
		publisher = notify.NoopPublisher{}
	}
	return &Orchestrator{
		snapshot:  snapshot,
		channel:   channel,
		pages:     pages,
		exporter:  exporter,
		recorder:  rec,
		store:     store,
		publisher: publisher,
		language:  mc.Language,
	}
}

// classifyStatus maps a run-aborting error to its recorded status.
func classifyStatus(err error) string {
	if err == nil {
		return StatusOK
	}
	switch derrors.CategoryOf(err) {
	case derrors.CategoryConfig:
		return StatusConfigError
	case derrors.CategoryValidation:
		return StatusValidationError
	case derrors.CategoryModel, derrors.CategoryNetwork:
		return StatusTransportError
	case derrors.CategoryParse:
		return StatusParseError
	default:
		return StatusError
	}
}

// Run executes one generation run for the requested repository.
func (o *Orchestrator) Run(ctx context.Context, req events.GenerationRequested) *RunResult {
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	owner := req.Repository.Owner()
	name := req.Repository.Name()
	branch := req.Branch
	if branch == "" {
		branch = req.Repository.DefaultBranch
	}

	result := &RunResult{
		RunID:      runID,
		Repository: req.Repository.FullName,
		Trigger:    req.Trigger,
		StartedAt:  time.Now(),
	}
	log := slog.With(
		logfields.RunID(runID),
		logfields.Repository(req.Repository.FullName),
		logfields.Branch(branch))
	log.Info("Wiki generation run started", logfields.Action(string(req.Trigger)))

	tree, err := o.proposeStructure(ctx, log, req.Repository, owner, name, branch)
	if err != nil {
		return o.finish(ctx, log, result, err)
	}

	result.PagesTotal = len(tree.Pages)
	stageStart := time.Now()
	pageResults := o.pages.GenerateAll(ctx, req.Repository.HTMLURL, owner, name, tree)
	o.recorder.ObserveStageDuration("pages", time.Since(stageStart))
	for _, pr := range pageResults {
		if pr.State == PageStateFailed {
			result.PagesFailed++
		}
	}
	if ctx.Err() != nil {
		return o.finish(ctx, log, result, derrors.WrapError(ctx.Err(), derrors.CategoryRuntime, "run canceled").Build())
	}

	o.analyzePages(log, tree)

	stageStart = time.Now()
	artifact, err := o.exporter.Export(owner, name, tree)
	o.recorder.ObserveStageDuration("export", time.Since(stageStart))
	if err != nil {
		return o.finish(ctx, log, result, err)
	}
	result.Artifact = artifact

	return o.finish(ctx, log, result, nil)
}

// proposeStructure fetches the snapshot and turns the model's structure
// proposal into a validated tree.
func (o *Orchestrator) proposeStructure(ctx context.Context, log *slog.Logger, repo forge.Repository, owner, name, branch string) (*wiki.Tree, error) {
	stageStart := time.Now()
	fileTree := o.snapshot.FetchFileTree(ctx, owner, name, branch)
	readme := o.snapshot.FetchReadme(ctx, owner, name)
	o.recorder.ObserveStageDuration("snapshot", time.Since(stageStart))
	log.Info("Repository snapshot fetched",
		logfields.Stage("snapshot"),
		slog.Int("files", len(fileTree)),
		slog.Bool("readme", readme != ""))

	prompt := wiki.StructurePrompt(owner, name, strings.Join(fileTree, "\n"), readme, o.language)
	stageStart = time.Now()
	response, err := o.channel.Complete(ctx, llm.UserRequest(repo.HTMLURL, o.language, prompt))
	o.recorder.ObserveStageDuration("structure", time.Since(stageStart))
	if err != nil {
		return nil, err
	}

	xmlText, err := wiki.ExtractStructureXML(response)
	if err != nil {
		return nil, err
	}
	tree, err := wiki.ParseTree(xmlText)
	if err != nil {
		return nil, err
	}
	if len(tree.Pages) == 0 {
		return nil, derrors.ParseError("structure proposal contains no pages").Build()
	}
	log.Info("Wiki structure proposed",
		logfields.Stage("structure"),
		slog.Int("pages", len(tree.Pages)),
		slog.Int("sections", len(tree.Sections)))
	return tree, nil
}

// analyzePages logs what the model actually produced per page.
func (o *Orchestrator) analyzePages(log *slog.Logger, tree *wiki.Tree) {
	for i := range tree.Pages {
		page := &tree.Pages[i]
		stats, err := markdown.Analyze([]byte(page.Content))
		if err != nil {
			continue
		}
		log.Debug("Page content analyzed",
			logfields.PageID(page.ID),
			slog.Int("headings", stats.Headings),
			slog.Int("links", len(stats.Links)),
			slog.Int("diagrams", stats.Diagrams),
			slog.Int("words", stats.Words))
	}
}

// finish classifies the outcome, records it, and emits the completion
// notification. History and notification failures are logged, never returned.
func (o *Orchestrator) finish(ctx context.Context, log *slog.Logger, result *RunResult, err error) *RunResult {
	result.Err = err
	result.FinishedAt = time.Now()
	result.Status = classifyStatus(err)

	duration := result.FinishedAt.Sub(result.StartedAt)
	o.recorder.ObserveRunDuration(duration)
	o.recorder.IncRunOutcome(result.Status)

	if err != nil {
		log.Error("Wiki generation run failed",
			logfields.Status(result.Status),
			logfields.DurationMS(float64(duration.Milliseconds())),
			logfields.Error(err))
	} else {
		log.Info("Wiki generation run completed",
			logfields.Status(result.Status),
			logfields.DurationMS(float64(duration.Milliseconds())),
			slog.Int("pages_total", result.PagesTotal),
			slog.Int("pages_failed", result.PagesFailed),
			slog.String("artifact", result.Artifact))
	}

	// Persist and notify with a detached context so a canceled run still
	// leaves a history record behind.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if o.store != nil {
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		rec := eventstore.RunRecord{
			RunID:       result.RunID,
			Repository:  result.Repository,
			Trigger:     string(result.Trigger),
			Status:      result.Status,
			PagesTotal:  result.PagesTotal,
			PagesFailed: result.PagesFailed,
			Error:       errMsg,
			Artifact:    result.Artifact,
			StartedAt:   result.StartedAt,
			FinishedAt:  result.FinishedAt,
		}
		if storeErr := o.store.Append(recordCtx, rec); storeErr != nil {
			log.Warn("Recording run history failed", logfields.Error(storeErr))
		}
	}

	completed := events.RunCompleted{
		RunID:       result.RunID,
		Repository:  result.Repository,
		Status:      result.Status,
		PagesTotal:  result.PagesTotal,
		PagesFailed: result.PagesFailed,
		Artifact:    result.Artifact,
		CompletedAt: result.FinishedAt,
	}
	if pubErr := o.publisher.PublishRunCompleted(recordCtx, completed); pubErr != nil {
		log.Warn("Publishing run completion failed", logfields.Error(pubErr))
	}

	return result
}
