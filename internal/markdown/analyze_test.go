package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `# Architecture

The service has two parts. See [core](internal/core/core.go) and
<https://example.com/spec>.

![overview](img/overview.png)

` + "```mermaid" + `
graph TD
A --> B
` + "```" + `

## Data Flow

More prose with a [reference link][spec].

[spec]: https://example.com/spec
`

func TestAnalyze(t *testing.T) {
	stats, err := Analyze([]byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Headings)
	assert.Equal(t, 1, stats.Diagrams)
	assert.Positive(t, stats.Words)

	destinations := make([]string, 0, len(stats.Links))
	for _, l := range stats.Links {
		destinations = append(destinations, l.Destination)
	}
	assert.Contains(t, destinations, "internal/core/core.go")
	assert.Contains(t, destinations, "https://example.com/spec")
	assert.Contains(t, destinations, "img/overview.png")
}

func TestAnalyzeLinkKinds(t *testing.T) {
	stats, err := Analyze([]byte(samplePage))
	require.NoError(t, err)

	kinds := make(map[LinkKind]int)
	for _, l := range stats.Links {
		kinds[l.Kind]++
	}
	assert.Positive(t, kinds[LinkKindInline])
	assert.Positive(t, kinds[LinkKindAuto])
	assert.Positive(t, kinds[LinkKindImage])
	assert.Positive(t, kinds[LinkKindReferenceDefinition])
}

func TestAnalyzeEmpty(t *testing.T) {
	stats, err := Analyze(nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Headings)
	assert.Zero(t, stats.Diagrams)
	assert.Empty(t, stats.Links)
}

func TestExtractLinks(t *testing.T) {
	links, err := ExtractLinks([]byte("[a](x.md) and [b](y.md)"))
	require.NoError(t, err)
	assert.Len(t, links, 2)
}
