// Package markdown analyzes generated page content. It extracts link-like
// constructs and counts diagrams so the pipeline can log what the model
// actually produced for each page.
package markdown

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}

// Stats summarizes one page of generated content.
type Stats struct {
	Headings int
	Links    []Link
	Diagrams int
	Words    int
}

// Analyze parses a Markdown body and collects summary statistics.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func Analyze(body []byte) (Stats, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	stats := Stats{
		Links: make([]Link, 0),
		Words: len(strings.Fields(string(body))),
	}
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Heading:
			stats.Headings++
		case *gmast.AutoLink:
			stats.Links = append(stats.Links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			stats.Links = append(stats.Links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Reference-style links resolve to a Link node with a Destination.
			stats.Links = append(stats.Links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		case *gmast.FencedCodeBlock:
			if lang := node.Language(body); strings.EqualFold(string(lang), "mermaid") {
				stats.Diagrams++
			}
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		stats.Links = append(stats.Links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return stats, nil
}

// ExtractLinks parses a Markdown body and returns only its links.
func ExtractLinks(body []byte) ([]Link, error) {
	stats, err := Analyze(body)
	if err != nil {
		return nil, err
	}
	return stats.Links, nil
}
