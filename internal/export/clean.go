// Package export writes the flat-text wiki artifact consumed by downstream
// tooling. Generated page content is cleaned of HTML and decorative markdown
// before it is written.
package export

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	sourcesSpanRe = regexp.MustCompile("(?i)`Sources?: \\[.*?\\]\\(\\)`")
	imageLinkRe   = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	// Unwraps external links, keeping the link text.
	externalLinkRe = regexp.MustCompile(`\[(.*?)\]\(https?://[^\s)]+\)`)
	mermaidBlockRe = regexp.MustCompile("(?s)```mermaid.*?```")
	blankLinesRe   = regexp.MustCompile(`\n\s*\n`)
)

// CleanContent strips generated page content down to flat prose: source
// citation spans, images, external link wrappers, HTML markup (including whole
// <details> blocks), and mermaid diagrams are removed, and runs of blank lines
// collapse to one.
func CleanContent(content string) string {
	cleaned := sourcesSpanRe.ReplaceAllString(content, "")
	cleaned = imageLinkRe.ReplaceAllString(cleaned, "")
	cleaned = externalLinkRe.ReplaceAllString(cleaned, "$1")
	cleaned = stripHTML(cleaned)
	cleaned = mermaidBlockRe.ReplaceAllString(cleaned, "")
	cleaned = blankLinesRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// stripHTML removes markup while keeping text content. <details> subtrees are
// dropped entirely, collapsible blocks duplicate prose that already appears
// elsewhere in the page.
func stripHTML(content string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	var sb strings.Builder
	detailsDepth := 0
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			// Malformed markup: fall back to the input untouched.
			return content
		}
		switch tt {
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "details" {
				detailsDepth++
			}
		case html.EndTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "details" && detailsDepth > 0 {
				detailsDepth--
			}
		case html.TextToken:
			if detailsDepth == 0 {
				sb.WriteString(tokenizer.Token().Data)
			}
		}
	}
	return sb.String()
}
