package export

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/models"
)

const (
	pageMargin  = 15.0
	bodyWidth   = 180.0
	lineHeight  = 6.0
	titleSize   = 18.0
	headingSize = 13.0
	bodySize    = 11.0
)

// document wraps a PDF with a vertical cursor and page-break handling so
// sections can be appended top to bottom.
type document struct {
	pdf *gofpdf.Fpdf
}

func newDocument() *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	return &document{pdf: pdf}
}

func (d *document) title(text string) {
	d.pdf.SetFont("Helvetica", "B", titleSize)
	d.pdf.MultiCell(bodyWidth, lineHeight+2, text, "", "L", false)
	d.pdf.Ln(2)
}

func (d *document) heading(text string) {
	d.pdf.SetFont("Helvetica", "B", headingSize)
	d.pdf.MultiCell(bodyWidth, lineHeight, text, "", "L", false)
	d.pdf.Ln(1)
}

func (d *document) line(text string) {
	d.pdf.SetFont("Helvetica", "", bodySize)
	d.pdf.MultiCell(bodyWidth, lineHeight, text, "", "L", false)
}

func (d *document) meta(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d.pdf.SetFont("Helvetica", "B", bodySize)
	d.pdf.CellFormat(38, lineHeight, label, "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", bodySize)
	d.pdf.MultiCell(bodyWidth-38, lineHeight, value, "", "L", false)
}

func (d *document) gap() {
	d.pdf.Ln(3)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Assignment renders an assignment detail into a printable PDF and returns
// the document together with a filename derived from its title.
func Assignment(detail dto.AssignmentDetail) ([]byte, string, error) {
	doc := newDocument()

	doc.title(detail.Title)
	doc.meta("Type:", strings.ReplaceAll(detail.Type, "_", " "))
	doc.meta("Subject:", detail.Subject)
	doc.meta("Topic:", detail.Topic)
	doc.meta("Grade Level:", detail.Grade)
	doc.meta("Difficulty:", detail.Difficulty)
	if detail.TotalPoints > 0 {
		doc.meta("Total Points:", fmt.Sprintf("%d", detail.TotalPoints))
	}
	if detail.DueDate != nil {
		doc.meta("Due:", detail.DueDate.Format("January 2, 2006"))
	}
	if strings.TrimSpace(detail.Description) != "" {
		doc.gap()
		doc.line(detail.Description)
	}

	for _, kind := range detail.Outputs {
		doc.gap()
		switch kind {
		case dto.SectionQuestions:
			doc.heading("Questions")
			for i, q := range detail.Questions {
				doc.line(fmt.Sprintf("%d. %s (%d pts)", i+1, q.Text, q.Points))
				for _, option := range orderedOptions(q.Options) {
					doc.line("    " + option)
				}
			}
		case dto.SectionInstructions:
			doc.heading("Instructions")
			for _, section := range detail.Instructions {
				doc.line(section.Title)
				doc.line(section.Content)
				doc.gap()
			}
		case dto.SectionRubric:
			doc.heading("Rubric")
			writeCriteria(doc, detail.Rubric)
		case dto.SectionChecklist:
			doc.heading("Checklist")
			for _, item := range detail.Checklist {
				marker := "[ ]"
				if item.Required {
					marker = "[x]"
				}
				doc.line(fmt.Sprintf("%s %s", marker, item.Item))
			}
		case dto.SectionParticipationCriteria:
			doc.heading("Participation Criteria")
			writeCriteria(doc, detail.ParticipationCriteria)
		case dto.SectionAnswerKey:
			doc.heading("Answer Key")
			for i, entry := range detail.AnswerKey {
				key := entry.Key
				if key == "" {
					key = "-"
				}
				doc.line(fmt.Sprintf("Question %d: %s  %s", i+1, key, entry.Value))
			}
		}
	}

	data, err := doc.bytes()
	if err != nil {
		return nil, "", err
	}
	return data, Filename(detail.Title), nil
}

// Syllabus renders a course syllabus into a printable PDF.
func Syllabus(course dto.CourseResponse) ([]byte, string, error) {
	doc := newDocument()
	syllabus := course.Syllabus

	doc.title(firstFilled(syllabus.CourseTitle, course.Name))
	doc.meta("Instructor:", syllabus.Instructor.Name)
	doc.meta("Term:", syllabus.Term)
	doc.meta("Subject:", course.Subject)
	doc.meta("Grade Level:", course.Grade)

	if desc := firstFilled(syllabus.CourseDescription, course.Description); desc != "" {
		doc.gap()
		doc.heading("Course Description")
		doc.line(desc)
	}

	if len(syllabus.LearningObjectives) > 0 {
		doc.gap()
		doc.heading("Learning Objectives")
		for _, objective := range syllabus.LearningObjectives {
			doc.line("- " + objective)
		}
	}

	if len(syllabus.RequiredMaterials) > 0 {
		doc.gap()
		doc.heading("Required Materials")
		for _, material := range syllabus.RequiredMaterials {
			line := material.Title
			if material.Author != "" {
				line += ", " + material.Author
			}
			if material.Publisher != "" {
				line += " (" + material.Publisher
				if material.Year != "" {
					line += ", " + material.Year
				}
				line += ")"
			}
			if !material.Required {
				line += " [optional]"
			}
			doc.line("- " + line)
		}
	}

	if len(syllabus.GradingPolicy) > 0 {
		doc.gap()
		doc.heading("Grading Policy")
		for _, name := range sortedKeys(syllabus.GradingPolicy) {
			component := syllabus.GradingPolicy[name]
			doc.line(fmt.Sprintf("%s: %d%%  %s", name, component.Percentage, component.Description))
		}
		if course.Grading.Warning != "" {
			doc.line(fmt.Sprintf("Note: %s (total %d%%)", course.Grading.Warning, course.Grading.Total))
		}
	}

	if len(syllabus.WeeklySchedule) > 0 {
		doc.gap()
		doc.heading("Weekly Schedule")
		for _, week := range syllabus.WeeklySchedule {
			doc.line(fmt.Sprintf("Week %d: %s", week.Week, week.Topic))
			if week.Readings != "" {
				doc.line("    Readings: " + week.Readings)
			}
			if week.Assignments != "" {
				doc.line("    Assignments: " + week.Assignments)
			}
		}
	}

	if len(syllabus.Policies) > 0 {
		doc.gap()
		doc.heading("Policies")
		for _, name := range sortedPolicyKeys(syllabus.Policies) {
			doc.line(name + ": " + syllabus.Policies[name])
		}
	}

	data, err := doc.bytes()
	if err != nil {
		return nil, "", err
	}
	return data, Filename(firstFilled(syllabus.CourseTitle, course.Name)), nil
}

var filenamePattern = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a safe download filename from a document title.
func Filename(title string) string {
	slug := filenamePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "document"
	}
	return slug + ".pdf"
}

func writeCriteria(doc *document, rows []dto.CriterionResponse) {
	for _, row := range rows {
		doc.line(fmt.Sprintf("%s (%d pts)", row.Criterion, row.Points))
		if row.Description != "" {
			doc.line("    " + row.Description)
		}
	}
}

// orderedOptions lays letter-keyed options out as "a. text" lines in key
// order.
func orderedOptions(options map[string]string) []string {
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

func sortedKeys(policy map[string]models.GradingComponent) []string {
	keys := make([]string, 0, len(policy))
	for key := range policy {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedPolicyKeys(policies map[string]string) []string {
	keys := make([]string, 0, len(policies))
	for key := range policies {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func firstFilled(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
