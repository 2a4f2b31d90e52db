package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alexsohr/autodoc/internal/config"
	derrors "github.com/alexsohr/autodoc/internal/errors"
	"github.com/alexsohr/autodoc/internal/wiki"
)

var titleCaser = cases.Title(language.English)

// Exporter writes one flat-text artifact per run into the output directory.
type Exporter struct {
	dir string
}

// NewExporter constructs an Exporter from output configuration.
func NewExporter(oc config.OutputConfig) *Exporter {
	return &Exporter{dir: oc.Dir}
}

// Export writes the artifact for a generated tree and returns its path.
// The file is named {owner}_{repo}_llms.txt and fully replaces any previous
// artifact for the same repository.
func (e *Exporter) Export(owner, repo string, tree *wiki.Tree) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", derrors.ExportError("creating output directory").WithCause(err).
			WithContext("dir", e.dir).Build()
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s_%s_llms.txt", owner, repo))
	if err := os.WriteFile(path, []byte(Render(tree)), 0o644); err != nil {
		return "", derrors.ExportError("writing wiki artifact").WithCause(err).
			WithContext("path", path).Build()
	}
	return path, nil
}

// Render formats the tree as flat text, one block per page in page order.
func Render(tree *wiki.Tree) string {
	var sb strings.Builder
	for _, page := range tree.Pages {
		title := page.Title
		if title == "" {
			title = titleCaser.String(strings.ReplaceAll(page.ID, "-", " "))
		}

		sb.WriteString("# " + title + "\n")
		sb.WriteString(strings.Repeat("-", len(title)+2) + "\n\n")

		sb.WriteString("**ID:** " + page.ID + "\n")
		sb.WriteString("**Importance:** " + titleCaser.String(string(page.Importance)) + "\n")
		sb.WriteString("**Related Pages:** " + joinOrNone(page.RelatedPages) + "\n")
		sb.WriteString("**Relevant Files:** " + joinOrNone(page.FilePaths) + "\n\n")

		sb.WriteString("## Content\n")
		sb.WriteString(CleanContent(page.Content) + "\n\n")
		sb.WriteString(strings.Repeat("---", 10) + "\n\n")
	}
	return sb.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
