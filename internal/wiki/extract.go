package wiki

import (
	"regexp"
	"strings"

	derrors "github.com/alexsohr/autodoc/internal/errors"
)

// Sentinel extraction failures.
var (
	ErrEmptyModelResponse = derrors.ValidationError("model structure response is empty").Build()
	ErrNoStructureFound   = derrors.ValidationError("no wiki_structure XML found in model response").Build()
)

var (
	// Models frequently wrap output in markdown fences despite instructions.
	leadingFenceRe  = regexp.MustCompile("(?i)^```(?:xml)?\\s*")
	trailingFenceRe = regexp.MustCompile("```\\s*$")

	// Non-greedy so trailing prose after the close tag is ignored.
	structureSpanRe = regexp.MustCompile(`(?s)<wiki_structure>.*?</wiki_structure>`)

	// Control characters invalid in XML 1.0; models occasionally emit them.
	controlCharsRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// ExtractStructureXML cleans the raw model response and extracts the
// <wiki_structure> XML span, ready for parsing. The steps run in a fixed
// order: emptiness check, fence strip, span search, control-character strip.
func ExtractStructureXML(response string) (string, error) {
	if strings.TrimSpace(response) == "" {
		return "", ErrEmptyModelResponse
	}

	cleaned := leadingFenceRe.ReplaceAllString(response, "")
	cleaned = trailingFenceRe.ReplaceAllString(cleaned, "")

	span := structureSpanRe.FindString(cleaned)
	if span == "" {
		return "", ErrNoStructureFound
	}

	return controlCharsRe.ReplaceAllString(span, ""), nil
}
