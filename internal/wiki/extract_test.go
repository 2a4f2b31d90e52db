package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStructure = `<wiki_structure><title>T</title></wiki_structure>`

func TestExtractStructureXML_Bare(t *testing.T) {
	got, err := ExtractStructureXML(sampleStructure)
	require.NoError(t, err)
	assert.Equal(t, sampleStructure, got)
}

func TestExtractStructureXML_FencedXML(t *testing.T) {
	got, err := ExtractStructureXML("```xml\n" + sampleStructure + "\n```")
	require.NoError(t, err)
	assert.Equal(t, sampleStructure, got)
}

func TestExtractStructureXML_PlainFence(t *testing.T) {
	got, err := ExtractStructureXML("```\n" + sampleStructure + "\n```")
	require.NoError(t, err)
	assert.Equal(t, sampleStructure, got)
}

func TestExtractStructureXML_SurroundingProse(t *testing.T) {
	response := "Here is the structure you asked for:\n" + sampleStructure + "\nLet me know if you need changes."
	got, err := ExtractStructureXML(response)
	require.NoError(t, err)
	assert.Equal(t, sampleStructure, got)
}

func TestExtractStructureXML_StripsControlChars(t *testing.T) {
	dirty := "<wiki_structure><title>A\x00B\x1fC</title></wiki_structure>"
	got, err := ExtractStructureXML(dirty)
	require.NoError(t, err)
	assert.Equal(t, "<wiki_structure><title>ABC</title></wiki_structure>", got)
}

func TestExtractStructureXML_KeepsWhitespaceControls(t *testing.T) {
	// Tab and newline are valid XML whitespace and must survive.
	input := "<wiki_structure>\n\t<title>A</title>\n</wiki_structure>"
	got, err := ExtractStructureXML(input)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestExtractStructureXML_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := ExtractStructureXML(input)
		assert.ErrorIs(t, err, ErrEmptyModelResponse)
	}
}

func TestExtractStructureXML_NoStructure(t *testing.T) {
	_, err := ExtractStructureXML("I could not produce a structure, sorry.")
	assert.ErrorIs(t, err, ErrNoStructureFound)
}

func TestExtractStructureXML_UnclosedTag(t *testing.T) {
	_, err := ExtractStructureXML("<wiki_structure><title>T</title>")
	assert.ErrorIs(t, err, ErrNoStructureFound)
}
