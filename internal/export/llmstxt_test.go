package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexsohr/autodoc/internal/config"
	"github.com/alexsohr/autodoc/internal/wiki"
)

func sampleTree() *wiki.Tree {
	return &wiki.Tree{
		Title: "Widgets",
		Pages: []wiki.Page{
			{
				ID:           "page-1",
				Title:        "Introduction",
				Importance:   wiki.ImportanceHigh,
				FilePaths:    []string{"README.md", "cmd/widgets/main.go"},
				RelatedPages: []string{"page-2"},
				Content:      "What widgets do.",
			},
			{
				ID:         "page-2",
				Title:      "Architecture",
				Importance: wiki.ImportanceMedium,
				Content:    "How widgets work.",
			},
		},
	}
}

func TestRender_PageBlocks(t *testing.T) {
	out := Render(sampleTree())

	assert.Contains(t, out, "# Introduction\n")
	// Underline is title length plus two.
	assert.Contains(t, out, "\n"+strings.Repeat("-", len("Introduction")+2)+"\n")
	assert.Contains(t, out, "**ID:** page-1\n")
	assert.Contains(t, out, "**Importance:** High\n")
	assert.Contains(t, out, "**Related Pages:** page-2\n")
	assert.Contains(t, out, "**Relevant Files:** README.md, cmd/widgets/main.go\n")
	assert.Contains(t, out, "## Content\nWhat widgets do.\n")

	// Empty lists render as None.
	assert.Contains(t, out, "**Related Pages:** None\n")
	assert.Contains(t, out, "**Relevant Files:** None\n")

	// Pages appear in page-list order, separated by the dash rule.
	assert.Less(t, strings.Index(out, "# Introduction"), strings.Index(out, "# Architecture"))
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("---", 10)))
}

func TestRender_TitleFallbackFromID(t *testing.T) {
	tree := &wiki.Tree{Pages: []wiki.Page{{ID: "getting-started", Importance: wiki.ImportanceLow}}}
	out := Render(tree)
	assert.Contains(t, out, "# Getting Started\n")
	assert.Contains(t, out, "**Importance:** Low\n")
}

func TestExport_WritesArtifact(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(config.OutputConfig{Dir: dir})

	path, err := e.Export("acme", "widgets", sampleTree())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acme_widgets_llms.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Introduction")
}

func TestExport_ReplacesPreviousArtifact(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(config.OutputConfig{Dir: dir})

	_, err := e.Export("acme", "widgets", sampleTree())
	require.NoError(t, err)

	second := &wiki.Tree{Pages: []wiki.Page{{ID: "p", Title: "Only Page", Importance: wiki.ImportanceMedium, Content: "new run"}}}
	path, err := e.Export("acme", "widgets", second)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Introduction")
	assert.Contains(t, string(data), "new run")
}

func TestExport_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	e := NewExporter(config.OutputConfig{Dir: dir})

	_, err := e.Export("acme", "widgets", sampleTree())
	require.NoError(t, err)
}
