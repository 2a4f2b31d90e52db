package generate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexsohr/autodoc/internal/config"
	derrors "github.com/alexsohr/autodoc/internal/errors"
	"github.com/alexsohr/autodoc/internal/llm"
	"github.com/alexsohr/autodoc/internal/metrics"
	"github.com/alexsohr/autodoc/internal/retry"
	"github.com/alexsohr/autodoc/internal/wiki"
)

// scriptedChannel replays canned responses in order. An empty string entry
// means "fail this call".
type scriptedChannel struct {
	responses []string
	calls     int
}

func (c *scriptedChannel) Complete(_ context.Context, _ llm.Request) (string, error) {
	idx := c.calls
	c.calls++
	if idx >= len(c.responses) {
		return "", derrors.ModelError("no scripted response").Build()
	}
	if c.responses[idx] == "" {
		return "", derrors.ModelError("scripted failure").Build()
	}
	return c.responses[idx], nil
}

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{
		Mode:        config.RetryBackoffFixed,
		Initial:     time.Millisecond,
		Max:         time.Millisecond,
		MaxAttempts: attempts,
	}
}

func testGenerator(channel llm.Channel, attempts int) *PageGenerator {
	return NewPageGenerator(channel, fastPolicy(attempts), metrics.NoopRecorder{}, config.ModelConfig{Language: "English"})
}

func TestGeneratePage_FirstAttemptSucceeds(t *testing.T) {
	channel := &scriptedChannel{responses: []string{"# Architecture\n\nGood content."}}
	g := testGenerator(channel, 3)
	page := &wiki.Page{ID: "page-1", Title: "Architecture"}

	result := g.GeneratePage(context.Background(), "https://github.com/acme/widgets", "acme", "widgets", page)

	assert.Equal(t, PageStateSucceeded, result.State)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "# Architecture\n\nGood content.", page.Content)
}

func TestGeneratePage_FailTwiceSucceedThird(t *testing.T) {
	channel := &scriptedChannel{responses: []string{"", "", "final content"}}
	g := testGenerator(channel, 3)
	page := &wiki.Page{ID: "page-1", Title: "Overview"}

	result := g.GeneratePage(context.Background(), "https://github.com/acme/widgets", "acme", "widgets", page)

	assert.Equal(t, PageStateSucceeded, result.State)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "final content", page.Content)
	assert.Equal(t, 3, channel.calls)
}

func TestGeneratePage_AllAttemptsFail(t *testing.T) {
	channel := &scriptedChannel{responses: []string{"", "", ""}}
	g := testGenerator(channel, 3)
	page := &wiki.Page{ID: "page-1", Title: "Overview"}

	result := g.GeneratePage(context.Background(), "https://github.com/acme/widgets", "acme", "widgets", page)

	assert.Equal(t, PageStateFailed, result.State)
	assert.Equal(t, 3, result.Attempts)
	require.Error(t, result.Err)
	assert.Contains(t, page.Content, "Error generating content:")
	assert.Contains(t, page.Content, "(after 3 attempts)")
}

func TestGeneratePage_EmptyResponseIsFailure(t *testing.T) {
	channel := &scriptedChannel{responses: []string{"   \n", "real content"}}
	g := testGenerator(channel, 3)
	page := &wiki.Page{ID: "page-1"}

	result := g.GeneratePage(context.Background(), "https://github.com/acme/widgets", "acme", "widgets", page)

	assert.Equal(t, PageStateSucceeded, result.State)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "real content", page.Content)
}

func TestGeneratePage_StripsMarkdownFence(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"markdown fence", "```markdown\n# Title\n\nBody\n```", "# Title\n\nBody"},
		{"bare fence", "```\n# Title\n```", "# Title"},
		{"no fence", "# Title\n\nBody", "# Title\n\nBody"},
		{"inner fence survives", "Intro\n\n```go\nfunc main() {}\n```\n\nOutro", "Intro\n\n```go\nfunc main() {}\n```\n\nOutro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel := &scriptedChannel{responses: []string{tt.response}}
			g := testGenerator(channel, 1)
			page := &wiki.Page{ID: "page-1"}

			result := g.GeneratePage(context.Background(), "u", "o", "r", page)
			require.Equal(t, PageStateSucceeded, result.State)
			assert.Equal(t, tt.want, page.Content)
		})
	}
}

func TestGeneratePage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	channel := &scriptedChannel{responses: []string{"", "", ""}}
	g := testGenerator(channel, 3)
	page := &wiki.Page{ID: "page-1"}

	result := g.GeneratePage(ctx, "u", "o", "r", page)
	assert.Equal(t, PageStateFailed, result.State)
	// The canceled backoff wait ends the retry loop early.
	assert.Less(t, result.Attempts, 3)
}

func TestGenerateAll_FailedPageDoesNotStopOthers(t *testing.T) {
	channel := &scriptedChannel{responses: []string{"first page", "", "third page"}}
	g := testGenerator(channel, 1)
	tree := &wiki.Tree{Pages: []wiki.Page{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}}

	results := g.GenerateAll(context.Background(), "u", "o", "r", tree)

	require.Len(t, results, 3)
	assert.Equal(t, PageStateSucceeded, results[0].State)
	assert.Equal(t, PageStateFailed, results[1].State)
	assert.Equal(t, PageStateSucceeded, results[2].State)
	assert.Equal(t, "first page", tree.Pages[0].Content)
	assert.True(t, strings.HasPrefix(tree.Pages[1].Content, "Error generating content:"))
	assert.Equal(t, "third page", tree.Pages[2].Content)
}
