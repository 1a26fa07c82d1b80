package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns canonical bundle sections into Markdown and sanitized HTML
// for the review screens and exports.
type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewRenderer builds a renderer with table support and a UGC sanitation
// policy extended for the elements the review screens emit.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("table", "thead", "tbody", "tr", "td", "th")
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")

	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table, extension.TaskList)),
		policy:   policy,
	}
}

// HTML converts Markdown to sanitized HTML.
func (r *Renderer) HTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return r.policy.Sanitize(buf.String()), nil
}

// QuestionsMarkdown lays the questions section out as Markdown, leading
// with the bundle metadata header.
func (r *Renderer) QuestionsMarkdown(b Bundle) string {
	var sb strings.Builder
	writeHeader(&sb, b)
	sb.WriteString("## Questions\n\n")

	for i, q := range b.Questions {
		fmt.Fprintf(&sb, "### %d. %s\n", i+1, q.Text)
		for _, option := range optionLines(q.Options) {
			sb.WriteString(option)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "\n**Points:** %d\n\n", q.Points)
	}

	return sb.String()
}

// InstructionsMarkdown lays the instruction sections out as Markdown.
func (r *Renderer) InstructionsMarkdown(b Bundle) string {
	var sb strings.Builder
	writeHeader(&sb, b)

	for _, section := range b.Instructions {
		fmt.Fprintf(&sb, "### %s\n", section.Title)
		sb.WriteString(section.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// RubricMarkdown lays rubric rows (or participation criteria) out as Markdown.
func (r *Renderer) RubricMarkdown(b Bundle, rows []CriterionDraft) string {
	var sb strings.Builder
	writeHeader(&sb, b)

	for _, row := range rows {
		fmt.Fprintf(&sb, "### %s\n", row.Criterion)
		sb.WriteString(row.Description)
		fmt.Fprintf(&sb, "\n**Points:** %d\n", row.Points)
	}

	return sb.String()
}

// ChecklistMarkdown lays checklist items out as a Markdown task list.
func (r *Renderer) ChecklistMarkdown(b Bundle) string {
	var sb strings.Builder
	writeHeader(&sb, b)
	sb.WriteString("## Checklist\n\n")

	for _, item := range b.Checklist {
		marker := " "
		if item.Required {
			marker = "x"
		}
		fmt.Fprintf(&sb, "- [%s] %s\n", marker, item.Item)
	}

	return sb.String()
}

// AnswerKeyText flattens answer key entries into display lines.
func AnswerKeyText(entries []AnswerDraft) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("Question %s: %s - %s", entry.QuestionID, entry.Key, entry.Value))
	}
	return strings.Join(lines, "\n")
}

func writeHeader(sb *strings.Builder, b Bundle) {
	fmt.Fprintf(sb, "# %s\n", b.Title)
	fmt.Fprintf(sb, "## %s\n", b.Subject)
	fmt.Fprintf(sb, "## %s\n", b.Topic)
	fmt.Fprintf(sb, "**Grade Level:** %s\n", orNA(b.Grade))
	fmt.Fprintf(sb, "**Difficulty:** %s\n", orNA(b.Difficulty))
	fmt.Fprintf(sb, "**Description:** %s\n\n", b.Description)
}

// optionLines orders a letter-keyed option map into "a. text" lines.
func optionLines(options map[string]string) []string {
	if len(options) == 0 {
		return nil
	}
	lines := make([]string, 0, len(options))
	for i := 0; i < len(options); i++ {
		key := string(rune('a' + i))
		text, ok := options[key]
		if !ok {
			break
		}
		lines = append(lines, fmt.Sprintf("%s. %s", key, text))
	}
	return lines
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}
