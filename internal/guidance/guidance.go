// Package guidance renders the instructional markdown handed to LLM
// clients: codebase search instructions, flag wrap-in snippets, and
// the change-risk checklist. All content lives in embedded templates;
// this package only fills in names and renders.
package guidance

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Template names.
const (
	SearchInstructions = "search-instructions.md.tmpl"
	WrapCode           = "wrap-code.md.tmpl"
	RiskChecklist      = "risk-checklist.md.tmpl"
)

// SearchData fills the codebase search instructions.
type SearchData struct {
	FlagName string
	Keywords string // optional extra search terms, comma separated
}

// WrapData fills the flag wrap-in guidance. Language must already be
// normalized via NormalizeLanguage; empty renders every language
// section.
type WrapData struct {
	FlagName string
	Language string
}

// RiskData fills the change-risk checklist.
type RiskData struct {
	ChangeSummary string
}

// languageAliases maps caller spellings onto the names the wrap
// template switches on.
var languageAliases = map[string]string{
	"javascript": "javascript",
	"js":         "javascript",
	"node":       "javascript",
	"typescript": "typescript",
	"ts":         "typescript",
	"python":     "python",
	"py":         "python",
	"go":         "go",
	"golang":     "go",
	"java":       "java",
	"kotlin":     "java",
}

// NormalizeLanguage folds a caller-supplied language onto a canonical
// name. Unknown languages come back empty, which renders all
// sections.
func NormalizeLanguage(lang string) string {
	return languageAliases[strings.ToLower(strings.TrimSpace(lang))]
}

// Renderer renders a named guidance template with its data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// EmbedRenderer serves the templates compiled into the binary.
type EmbedRenderer struct {
	t *template.Template
}

// NewRenderer parses the embedded guidance templates.
func NewRenderer() (*EmbedRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing guidance templates: %w", err)
	}
	return &EmbedRenderer{t: t}, nil
}

// Render executes the named template.
func (r *EmbedRenderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
