// Package generate runs the wiki generation pipeline: structure proposal,
// per-page content generation with retry, and artifact export.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/alexsohr/autodoc/internal/config"
	"github.com/alexsohr/autodoc/internal/llm"
	"github.com/alexsohr/autodoc/internal/logfields"
	"github.com/alexsohr/autodoc/internal/metrics"
	"github.com/alexsohr/autodoc/internal/retry"
	"github.com/alexsohr/autodoc/internal/wiki"
)

// PageState tracks one page through content generation. Transitions are
// monotonic: Pending -> Loading -> Succeeded or Failed.
type PageState string

const (
	PageStatePending   PageState = "pending"
	PageStateLoading   PageState = "loading"
	PageStateSucceeded PageState = "succeeded"
	PageStateFailed    PageState = "failed"
)

// PlaceholderContent is visible to readers of partially generated trees.
const PlaceholderContent = "Loading..."

// PageResult is the terminal outcome of one page generation.
type PageResult struct {
	ID       string
	State    PageState
	Attempts int
	Err      error
}

var (
	leadingMarkdownFenceRe  = regexp.MustCompile("(?i)^```(?:markdown)?\\s*\n?")
	trailingMarkdownFenceRe = regexp.MustCompile("\n?```\\s*$")
)

// stripMarkdownFences removes a wrapping code fence the model sometimes adds
// around the whole page.
func stripMarkdownFences(content string) string {
	trimmed := strings.TrimSpace(content)
	trimmed = leadingMarkdownFenceRe.ReplaceAllString(trimmed, "")
	trimmed = trailingMarkdownFenceRe.ReplaceAllString(trimmed, "")
	return strings.TrimSpace(trimmed)
}

// PageGenerator produces content for individual pages over the model channel.
type PageGenerator struct {
	channel  llm.Channel
	policy   retry.Policy
	recorder metrics.Recorder
	language string
}

// NewPageGenerator wires a generator from its dependencies.
func NewPageGenerator(channel llm.Channel, policy retry.Policy, rec metrics.Recorder, mc config.ModelConfig) *PageGenerator {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &PageGenerator{
		channel:  channel,
		policy:   policy,
		recorder: rec,
		language: mc.Language,
	}
}

// GeneratePage generates content for one page, retrying transient failures
// per the policy. The page content is mutated in place: placeholder while
// loading, final text on success, and an error description when every attempt
// failed. A failed page never fails the run.
func (g *PageGenerator) GeneratePage(ctx context.Context, repoURL, owner, repo string, page *wiki.Page) PageResult {
	result := PageResult{ID: page.ID, State: PageStateLoading}
	page.Content = PlaceholderContent

	prompt := wiki.PagePrompt(owner, repo, *page, g.language)
	req := llm.UserRequest(repoURL, g.language, prompt)

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		result.Attempts = attempt

		content, err := g.channel.Complete(ctx, req)
		if err == nil && strings.TrimSpace(content) == "" {
			err = fmt.Errorf("model returned empty page content")
		}
		if err == nil {
			page.Content = stripMarkdownFences(content)
			result.State = PageStateSucceeded
			g.recorder.ObservePageDuration(time.Since(start))
			g.recorder.IncPageResult(metrics.ResultSuccess)
			slog.Info("Page content generated",
				logfields.PageID(page.ID),
				logfields.PageTitle(page.Title),
				logfields.Attempt(attempt))
			return result
		}

		lastErr = err
		slog.Warn("Page content generation attempt failed",
			logfields.PageID(page.ID),
			logfields.Attempt(attempt),
			logfields.Error(err))

		if attempt < g.policy.MaxAttempts {
			g.recorder.IncPageRetry()
			if waitErr := g.policy.Wait(ctx, attempt); waitErr != nil {
				lastErr = waitErr
				break
			}
		}
	}

	page.Content = fmt.Sprintf("Error generating content: %v (after %d attempts)", lastErr, result.Attempts)
	result.State = PageStateFailed
	result.Err = lastErr
	g.recorder.ObservePageDuration(time.Since(start))
	g.recorder.IncPageRetryExhausted()
	if ctx.Err() != nil {
		g.recorder.IncPageResult(metrics.ResultCanceled)
	} else {
		g.recorder.IncPageResult(metrics.ResultFailed)
	}
	slog.Error("Page content generation failed",
		logfields.PageID(page.ID),
		logfields.Attempt(result.Attempts),
		logfields.Error(lastErr))
	return result
}

// GenerateAll generates every page of the tree sequentially, in page order.
// It returns the per-page results and stops early only on context cancel.
func (g *PageGenerator) GenerateAll(ctx context.Context, repoURL, owner, repo string, tree *wiki.Tree) []PageResult {
	results := make([]PageResult, 0, len(tree.Pages))
	for i := range tree.Pages {
		if ctx.Err() != nil {
			break
		}
		results = append(results, g.GeneratePage(ctx, repoURL, owner, repo, &tree.Pages[i]))
	}
	return results
}
