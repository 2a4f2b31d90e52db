package wiki

import (
	"encoding/xml"
	"fmt"
	"strings"

	derrors "github.com/alexsohr/autodoc/internal/errors"
)

// xmlNode is a generic element-tree node. The structure XML is too loose for
// static struct decoding: pages and sections may appear at any depth and
// carry optional children, so the parser walks a generic tree instead.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Chardata string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

// attr returns the named attribute value, or "".
func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// childText returns the trimmed text of the first direct child with the given
// name, or "" when absent.
func (n *xmlNode) childText(name string) string {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return strings.TrimSpace(n.Children[i].Chardata)
		}
	}
	return ""
}

// findAll returns all descendant elements with the given name, depth-first in
// document order.
func (n *xmlNode) findAll(name string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Children {
		child := &n.Children[i]
		if child.XMLName.Local == name {
			out = append(out, child)
		}
		out = append(out, child.findAll(name)...)
	}
	return out
}

// collectText gathers the trimmed, non-empty text of all descendants with the
// given name.
func (n *xmlNode) collectText(name string) []string {
	var out []string
	for _, el := range n.findAll(name) {
		if text := strings.TrimSpace(el.Chardata); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// ParseTree parses extracted structure XML into a validated Tree. XML syntax
// errors preserve the underlying parser diagnostic.
func ParseTree(xmlText string) (*Tree, error) {
	var root xmlNode
	if err := xml.Unmarshal([]byte(xmlText), &root); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryParse, "malformed wiki structure XML").Build()
	}

	tree := &Tree{
		Title:       root.childText("title"),
		Description: root.childText("description"),
	}

	seenIDs := make(map[string]bool)
	for i, el := range root.findAll("page") {
		id := el.attr("id")
		if id == "" || seenIDs[id] {
			// Positional fallback keeps ids unique across the full page list.
			id = fmt.Sprintf("page-%d", i+1)
		}
		seenIDs[id] = true

		tree.Pages = append(tree.Pages, Page{
			ID:           id,
			Title:        el.childText("title"),
			Description:  el.childText("description"),
			Importance:   ParseImportance(el.childText("importance")),
			FilePaths:    el.collectText("file_path"),
			RelatedPages: el.collectText("related"),
		})
	}

	for i, el := range root.findAll("section") {
		id := el.attr("id")
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}
		title := el.childText("title")
		if title == "" {
			title = fmt.Sprintf("Untitled Section %s", id)
		}

		tree.Sections = append(tree.Sections, Section{
			ID:          id,
			Title:       title,
			Pages:       el.collectText("page_ref"),
			Subsections: el.collectText("section_ref"),
		})
	}

	tree.RootSections = computeRootSections(tree.Sections)
	return tree, nil
}
