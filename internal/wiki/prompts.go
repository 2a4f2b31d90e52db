package wiki

import (
	"fmt"
	"strings"
)

const fence = "```"

// structurePromptTemplate instructs the model to propose a wiki structure as
// one XML document. The output contract must stay in sync with ParseTree.
const structurePromptTemplate = `Analyze this GitHub repository %[1]s/%[2]s and create a wiki structure for it.

The complete file tree of the project:

<file_tree> %[3]s </file_tree>

The README file of the project:

<readme> %[4]s </readme>

I want to create a wiki for this repository. Determine the most logical structure for a wiki based on the repository's content.

IMPORTANT: The wiki content will be generated in '%[5]s' language.

When designing the wiki structure, include pages that would benefit from visual diagrams, such as:

- Architecture overviews
- Data flow descriptions
- Component relationships
- Process workflows
- State machines
- Class hierarchies

Create a structured wiki with the following main sections:

- Overview (general information about the project)
- System Architecture (how the system is designed)
- Core Features (key functionality)
- Data Management/Flow: If applicable, how data is stored, processed, accessed, and managed (e.g., database schema, data pipelines, state management).
- Frontend Components (UI elements, if applicable.)
- Backend Systems (server-side components)
- Model Integration (AI model connections)
- Deployment/Infrastructure (how to deploy, what's the infrastructure like)
- Extensibility and Customization: If the project architecture supports it, explain how to extend or customize its functionality (e.g., plugins, theming, custom modules, hooks).

Each section should contain relevant pages.

Return your analysis in the following XML format:

<wiki_structure>
  <title>[Overall title for the wiki]</title>
  <description>[Brief description of the repository]</description>
  <sections>
    <section id="section-1">
      <title>[Section title]</title>
      <pages>
        <page_ref>page-1</page_ref>
        <page_ref>page-2</page_ref>
      </pages>
      <subsections>
        <section_ref>section-2</section_ref>
      </subsections>
    </section>
    <!-- More sections as needed -->
  </sections>
  <pages>
    <page id="page-1">
      <title>[Page title]</title>
      <description>[Brief description of what this page will cover]</description>
      <importance>high|medium|low</importance>
      <relevant_files>
        <file_path>[Path to a relevant file]</file_path>
        <!-- More file paths as needed -->
      </relevant_files>
      <related_pages>
        <related>page-2</related>
        <!-- More related page IDs as needed -->
      </related_pages>
      <parent_section>section-1</parent_section>
    </page>
    <!-- More pages as needed -->
  </pages>
</wiki_structure>

IMPORTANT FORMATTING INSTRUCTIONS:

- Return ONLY the valid XML structure specified above
- DO NOT wrap the XML in markdown code blocks (no %[6]s or %[6]sxml)
- DO NOT include any explanation text before or after the XML
- Ensure the XML is properly formatted and valid
- Start directly with <wiki_structure> and end with </wiki_structure>

IMPORTANT:
1. Create 8-12 pages that would make a comprehensive wiki for this repository
2. Each page should focus on a specific aspect of the codebase (e.g., architecture, key features, setup)
3. The relevant_files should be actual files from the repository that would be used to generate that page
4. Return ONLY valid XML with the structure specified above, with no markdown code block delimiters`

// StructurePrompt builds the structure-proposal prompt for a repository.
func StructurePrompt(owner, repo, fileTree, readme, language string) string {
	if language == "" {
		language = "English"
	}
	return fmt.Sprintf(structurePromptTemplate, owner, repo, fileTree, readme, language, fence)
}

// pagePromptTemplate instructs the model to write one wiki page as markdown.
const pagePromptTemplate = `You are generating one page of a technical wiki for the GitHub repository %[1]s/%[2]s.

Write comprehensive documentation for the wiki page titled "%[3]s".

Base the page on these source files:

%[4]s

Guidelines:

- Start with a short introduction explaining what this part of the system does
- Explain the key types, functions, and flows found in the relevant files
- Include mermaid diagrams where they clarify architecture or data flow
- Use section headings to organize the content
- Cite the relevant file paths when describing behavior
- Write in %[5]s

Return ONLY the markdown content of the page, with no surrounding commentary.`

// PagePrompt builds the content-generation prompt for a single page.
func PagePrompt(owner, repo string, page Page, language string) string {
	if language == "" {
		language = "English"
	}
	fileList := make([]string, 0, len(page.FilePaths))
	for _, path := range page.FilePaths {
		fileList = append(fileList, fmt.Sprintf("- [%s](%s)", path, path))
	}
	return fmt.Sprintf(pagePromptTemplate, owner, repo, page.Title, strings.Join(fileList, "\n"), language)
}
