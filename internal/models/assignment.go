package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assignment type identifiers accepted by the generation wizard.
const (
	TypeEssay              = "essay"
	TypeMultipleChoiceQuiz = "multiple_choice_quiz"
	TypeShortAnswerTest    = "short_answer_test"
	TypeDiscussion         = "discussion"
	TypeCaseStudy          = "case_study"
	TypePresentation       = "presentation"
	TypeLabReport          = "lab_report"
	TypePortfolio          = "portfolio"
	TypeResearchPaper      = "research_paper"
)

// Assignment is an authored piece of coursework together with its
// generated sections.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     uint       `gorm:"index" json:"owner_id"`
	CourseID    *uint      `gorm:"index" json:"course_id,omitempty"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        string     `gorm:"size:64;not null" json:"type"`
	Subject     string     `gorm:"size:128" json:"subject"`
	Grade       string     `gorm:"size:32" json:"grade"`
	Difficulty  string     `gorm:"size:32" json:"difficulty"`
	Topic       string     `gorm:"size:255" json:"topic"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	PublishTargetsRaw string   `gorm:"column:publish_targets;type:text" json:"-"`
	PublishTargets    []string `gorm:"-" json:"publish_targets"`

	Questions             []Question               `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
	Instructions          []InstructionSection     `gorm:"constraint:OnDelete:CASCADE" json:"instructions"`
	Rubric                []RubricItem             `gorm:"constraint:OnDelete:CASCADE" json:"rubric"`
	Checklist             []ChecklistItem          `gorm:"constraint:OnDelete:CASCADE" json:"checklist"`
	ParticipationCriteria []ParticipationCriterion `gorm:"constraint:OnDelete:CASCADE" json:"participation_criteria"`
	AnswerKey             []AnswerKeyEntry         `gorm:"constraint:OnDelete:CASCADE" json:"answer_key"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalPoints derives the assignment total as the sum of question points.
func (a Assignment) TotalPoints() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}

// BeforeSave normalises publish targets before persisting.
func (a *Assignment) BeforeSave(tx *gorm.DB) error {
	a.PublishTargetsRaw = encodeList(a.PublishTargets)
	return nil
}

// AfterFind hydrates the publish target list after retrieval.
func (a *Assignment) AfterFind(tx *gorm.DB) error {
	a.PublishTargets = decodeList(a.PublishTargetsRaw)
	return nil
}

func encodeList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	return strings.Join(cleaned, ",")
}

func decodeList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// Question belongs to an assignment. Options are keyed by contiguous
// lowercase letters starting at "a", assigned in array order at creation.
type Question struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AssignmentID uint              `gorm:"index;not null" json:"assignment_id"`
	Text         string            `gorm:"column:question;type:text;not null" json:"question"`
	Type         string            `gorm:"size:64" json:"type"`
	Points       int               `gorm:"default:5" json:"points"`
	Options      datatypes.JSONMap `gorm:"type:json" json:"options,omitempty"`
	Answer       string            `gorm:"type:text" json:"answer,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// OptionValues returns the option texts ordered by their letter keys.
func (q Question) OptionValues() []string {
	if len(q.Options) == 0 {
		return nil
	}
	values := make([]string, 0, len(q.Options))
	for i := 0; i < len(q.Options); i++ {
		key := string(rune('a' + i))
		raw, ok := q.Options[key]
		if !ok {
			break
		}
		if text, ok := raw.(string); ok {
			values = append(values, text)
		}
	}
	return values
}

// InstructionSection is a titled block of assignment instructions.
type InstructionSection struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"index;not null" json:"assignment_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Position     int       `gorm:"default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RubricItem is a single grading criterion row.
type RubricItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"index;not null" json:"assignment_id"`
	Criterion    string    `gorm:"size:255;not null" json:"criterion"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Points       int       `gorm:"default:5" json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ParticipationCriterion mirrors a rubric row but scores participation.
type ParticipationCriterion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"index;not null" json:"assignment_id"`
	Criterion    string    `gorm:"size:255;not null" json:"criterion"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Points       int       `gorm:"default:5" json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChecklistItem is a required-or-optional task on the assignment checklist.
type ChecklistItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"index;not null" json:"assignment_id"`
	Item         string    `gorm:"type:text;not null" json:"item"`
	Required     bool      `gorm:"default:false" json:"required"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AnswerKeyEntry holds the expected answer for one question.
type AnswerKeyEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"index;not null" json:"assignment_id"`
	QuestionID   uint      `gorm:"index" json:"question_id"`
	Key          string    `gorm:"size:16" json:"key"`
	Value        string    `gorm:"type:text" json:"value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
