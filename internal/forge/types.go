// Package forge integrates with the repository-hosting platform: webhook
// signature verification, event parsing and classification, and repository
// snapshot retrieval (file tree and README).
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	derrors "github.com/alexsohr/autodoc/internal/errors"
)

// EventTypePullRequest is the webhook event type that can trigger generation.
const EventTypePullRequest = "pull_request"

// Repository identifies the repository a webhook event belongs to.
type Repository struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
}

// Owner returns the owner half of the repository full name.
func (r Repository) Owner() string {
	owner, _ := splitFullName(r.FullName)
	return owner
}

// Name returns the repository half of the full name.
func (r Repository) Name() string {
	_, name := splitFullName(r.FullName)
	return name
}

// BaseRef is the target branch of a pull request.
type BaseRef struct {
	Ref string `json:"ref"`
}

// PullRequest carries the merge state relevant for event classification.
type PullRequest struct {
	Merged bool    `json:"merged"`
	Base   BaseRef `json:"base"`
}

// WebhookEvent is the immutable record of one inbound webhook delivery.
// It is constructed once per request from untrusted JSON and never mutated.
type WebhookEvent struct {
	Action      string      `json:"action"`
	Number      int         `json:"number"`
	Repository  Repository  `json:"repository"`
	PullRequest PullRequest `json:"pull_request"`
}

// ParseWebhookEvent decodes and validates an event payload. Construction fails
// with a validation error when required fields are absent or malformed.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var evt WebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "malformed webhook payload").Build()
	}
	if evt.Repository.FullName == "" {
		return nil, derrors.ValidationError("webhook payload missing repository.full_name").Build()
	}
	if owner, name := splitFullName(evt.Repository.FullName); owner == "" || name == "" {
		return nil, derrors.ValidationError("invalid repository full_name format").
			WithContext("full_name", evt.Repository.FullName).Build()
	}
	if evt.Repository.DefaultBranch == "" {
		return nil, derrors.ValidationError("webhook payload missing repository.default_branch").Build()
	}
	return &evt, nil
}

// ShouldProcess decides whether a webhook event triggers wiki generation.
// Reference policy: only a pull request closed as merged into the repository's
// default branch. Anything else is filtered, never an error.
func ShouldProcess(eventType string, evt *WebhookEvent) bool {
	if evt == nil {
		return false
	}
	return eventType == EventTypePullRequest &&
		evt.Action == "closed" &&
		evt.PullRequest.Merged &&
		evt.PullRequest.Base.Ref == evt.Repository.DefaultBranch
}

// SnapshotFetcher retrieves the inputs for structure generation. Transient
// failures degrade to empty results with a log line; an empty file tree or
// README is valid (lower quality) input, not a pipeline failure.
type SnapshotFetcher interface {
	// FetchFileTree returns the flattened file-path listing (files only) of
	// the repository at the given branch.
	FetchFileTree(ctx context.Context, owner, repo, branch string) []string

	// FetchReadme returns the README text, or "" when none exists.
	FetchReadme(ctx context.Context, owner, repo string) string
}

func splitFullName(fullName string) (owner, repo string) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// CloneURL returns the HTTPS clone URL for a repository, derived from its web
// URL when the payload does not carry one explicitly.
func (r Repository) CloneURL() string {
	if r.HTMLURL == "" {
		return ""
	}
	return fmt.Sprintf("%s.git", strings.TrimSuffix(r.HTMLURL, "/"))
}
