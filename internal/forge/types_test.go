package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergedEvent() *WebhookEvent {
	return &WebhookEvent{
		Action: "closed",
		Number: 42,
		Repository: Repository{
			FullName:      "acme/widgets",
			HTMLURL:       "https://github.com/acme/widgets",
			DefaultBranch: "main",
		},
		PullRequest: PullRequest{
			Merged: true,
			Base:   BaseRef{Ref: "main"},
		},
	}
}

func TestShouldProcess_MergedToDefaultBranch(t *testing.T) {
	assert.True(t, ShouldProcess(EventTypePullRequest, mergedEvent()))
}

// Negating any one trigger condition must filter the event.
func TestShouldProcess_SingleConditionNegation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(eventType *string, evt *WebhookEvent)
	}{
		{"wrong event type", func(et *string, _ *WebhookEvent) { *et = "push" }},
		{"not closed", func(_ *string, evt *WebhookEvent) { evt.Action = "opened" }},
		{"closed unmerged", func(_ *string, evt *WebhookEvent) { evt.PullRequest.Merged = false }},
		{"non-default base", func(_ *string, evt *WebhookEvent) { evt.PullRequest.Base.Ref = "develop" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventType := EventTypePullRequest
			evt := mergedEvent()
			tt.mutate(&eventType, evt)
			assert.False(t, ShouldProcess(eventType, evt))
		})
	}
}

func TestShouldProcess_NilEvent(t *testing.T) {
	assert.False(t, ShouldProcess(EventTypePullRequest, nil))
}

func TestParseWebhookEvent_Valid(t *testing.T) {
	payload := []byte(`{
		"action": "closed",
		"number": 7,
		"repository": {"id": 1, "full_name": "acme/widgets", "html_url": "https://github.com/acme/widgets", "default_branch": "main"},
		"pull_request": {"merged": true, "base": {"ref": "main"}}
	}`)

	evt, err := ParseWebhookEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "acme", evt.Repository.Owner())
	assert.Equal(t, "widgets", evt.Repository.Name())
	assert.Equal(t, "https://github.com/acme/widgets.git", evt.Repository.CloneURL())
}

func TestParseWebhookEvent_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"action":`},
		{"missing full_name", `{"action":"closed","repository":{"default_branch":"main"}}`},
		{"bad full_name format", `{"action":"closed","repository":{"full_name":"nodash","default_branch":"main"}}`},
		{"missing default_branch", `{"action":"closed","repository":{"full_name":"a/b"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWebhookEvent([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}
