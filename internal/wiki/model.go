// Package wiki defines the documentation tree model proposed by the language
// model and the parsing that turns free-text model output into a validated,
// referentially consistent tree.
package wiki

// Importance ranks how central a page is to the repository.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// ParseImportance maps raw model output to an Importance. The rule is
// deterministic and applied uniformly: the literal strings "high" and "low"
// map to themselves, everything else (including absent) maps to medium.
func ParseImportance(raw string) Importance {
	switch raw {
	case string(ImportanceHigh):
		return ImportanceHigh
	case string(ImportanceLow):
		return ImportanceLow
	default:
		return ImportanceMedium
	}
}

// Page is one documentation unit. Content starts empty and transitions
// empty -> placeholder -> final text (or error text), monotonically.
type Page struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Importance   Importance `json:"importance"`
	FilePaths    []string   `json:"file_paths"`
	RelatedPages []string   `json:"related_pages"`
	Content      string     `json:"content"`
}

// Section groups pages and subsections in the navigation hierarchy.
// Member ids may forward-reference pages or sections not yet seen.
type Section struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Pages       []string `json:"pages"`
	Subsections []string `json:"subsections"`
}

// Tree is the complete proposed wiki structure. It is owned by exactly one
// pipeline run and discarded after the output artifact is written.
type Tree struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Pages        []Page    `json:"pages"`
	Sections     []Section `json:"sections"`
	RootSections []string  `json:"root_sections"`
}

// Page returns the page with the given id, or nil.
func (t *Tree) Page(id string) *Page {
	for i := range t.Pages {
		if t.Pages[i].ID == id {
			return &t.Pages[i]
		}
	}
	return nil
}

// computeRootSections returns the ids of sections not referenced as a
// subsection by any other section, in section order.
//
// Fallback: when every section is referenced by another (a reference cycle
// with no free root) or no section references any other, all sections are
// treated as roots. A tree must always have at least one navigation root.
func computeRootSections(sections []Section) []string {
	if len(sections) == 0 {
		return nil
	}

	referenced := make(map[string]bool)
	for _, s := range sections {
		for _, sub := range s.Subsections {
			referenced[sub] = true
		}
	}

	var roots []string
	for _, s := range sections {
		if !referenced[s.ID] {
			roots = append(roots, s.ID)
		}
	}

	if len(roots) == 0 {
		for _, s := range sections {
			roots = append(roots, s.ID)
		}
	}
	return roots
}
