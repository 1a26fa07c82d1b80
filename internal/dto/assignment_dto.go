package dto

import (
	"time"

	"github.com/gradegenie/gradegenie-api/internal/models"
)

// AssignmentUpdateRequest patches the assignment header fields.
type AssignmentUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AssignmentSummary is the list-view representation.
type AssignmentSummary struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Type          string     `json:"type"`
	Subject       string     `json:"subject"`
	Grade         string     `json:"grade"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	TotalPoints   int        `json:"total_points"`
	QuestionCount int        `json:"question_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// QuestionResponse is the canonical question shape: options keyed by
// letters, answer text, points.
type QuestionResponse struct {
	ID      uint              `json:"id"`
	Text    string            `json:"question"`
	Type    string            `json:"type"`
	Points  int               `json:"points"`
	Options map[string]string `json:"options,omitempty"`
	Answer  string            `json:"answer,omitempty"`
}

// InstructionResponse is one titled instruction section.
type InstructionResponse struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CriterionResponse is one rubric row or participation criterion.
type CriterionResponse struct {
	ID          uint   `json:"id"`
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// ChecklistResponse is one checklist entry.
type ChecklistResponse struct {
	ID       uint   `json:"id"`
	Item     string `json:"item"`
	Required bool   `json:"required"`
}

// AnswerKeyResponse is one answer key entry.
type AnswerKeyResponse struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Key        string `json:"key"`
	Value      string `json:"value"`
}

// AssignmentDetail is the full edit/review representation, sections
// included. Outputs lists the tabs the review screen should show: the
// non-empty sections in display order.
type AssignmentDetail struct {
	ID                    uint                  `json:"id"`
	OwnerID               uint                  `json:"owner_id"`
	CourseID              *uint                 `json:"course_id,omitempty"`
	Title                 string                `json:"title"`
	Description           string                `json:"description"`
	Type                  string                `json:"type"`
	Subject               string                `json:"subject"`
	Grade                 string                `json:"grade"`
	Difficulty            string                `json:"difficulty"`
	Topic                 string                `json:"topic"`
	DueDate               *time.Time            `json:"due_date,omitempty"`
	TotalPoints           int                   `json:"total_points"`
	PublishTargets        []string              `json:"publish_targets,omitempty"`
	Outputs               []string              `json:"outputs"`
	Questions             []QuestionResponse    `json:"questions"`
	Instructions          []InstructionResponse `json:"instructions"`
	Rubric                []CriterionResponse   `json:"rubric"`
	Checklist             []ChecklistResponse   `json:"checklist"`
	ParticipationCriteria []CriterionResponse   `json:"participation_criteria"`
	AnswerKey             []AnswerKeyResponse   `json:"answer_key"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// AssignmentListResponse wraps a page of assignments.
type AssignmentListResponse struct {
	Items      []AssignmentSummary `json:"items"`
	Pagination PaginationMeta      `json:"pagination"`
}

// NewAssignmentSummary converts a model into the list DTO.
func NewAssignmentSummary(model models.Assignment) AssignmentSummary {
	return AssignmentSummary{
		ID:            model.ID,
		Title:         model.Title,
		Description:   model.Description,
		Type:          model.Type,
		Subject:       model.Subject,
		Grade:         model.Grade,
		DueDate:       model.DueDate,
		TotalPoints:   model.TotalPoints(),
		QuestionCount: len(model.Questions),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewAssignmentDetail converts a fully loaded model into the detail DTO.
func NewAssignmentDetail(model models.Assignment) AssignmentDetail {
	detail := AssignmentDetail{
		ID:             model.ID,
		OwnerID:        model.OwnerID,
		CourseID:       model.CourseID,
		Title:          model.Title,
		Description:    model.Description,
		Type:           model.Type,
		Subject:        model.Subject,
		Grade:          model.Grade,
		Difficulty:     model.Difficulty,
		Topic:          model.Topic,
		DueDate:        model.DueDate,
		TotalPoints:    model.TotalPoints(),
		PublishTargets: model.PublishTargets,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}

	detail.Questions = make([]QuestionResponse, 0, len(model.Questions))
	for _, q := range model.Questions {
		detail.Questions = append(detail.Questions, NewQuestionResponse(q))
	}

	detail.Instructions = make([]InstructionResponse, 0, len(model.Instructions))
	for _, section := range model.Instructions {
		detail.Instructions = append(detail.Instructions, InstructionResponse{
			ID:      section.ID,
			Title:   section.Title,
			Content: section.Content,
		})
	}

	detail.Rubric = make([]CriterionResponse, 0, len(model.Rubric))
	for _, item := range model.Rubric {
		detail.Rubric = append(detail.Rubric, CriterionResponse{
			ID:          item.ID,
			Criterion:   item.Criterion,
			Description: item.Description,
			Points:      item.Points,
		})
	}

	detail.Checklist = make([]ChecklistResponse, 0, len(model.Checklist))
	for _, item := range model.Checklist {
		detail.Checklist = append(detail.Checklist, ChecklistResponse{
			ID:       item.ID,
			Item:     item.Item,
			Required: item.Required,
		})
	}

	detail.ParticipationCriteria = make([]CriterionResponse, 0, len(model.ParticipationCriteria))
	for _, criterion := range model.ParticipationCriteria {
		detail.ParticipationCriteria = append(detail.ParticipationCriteria, CriterionResponse{
			ID:          criterion.ID,
			Criterion:   criterion.Criterion,
			Description: criterion.Description,
			Points:      criterion.Points,
		})
	}

	detail.AnswerKey = make([]AnswerKeyResponse, 0, len(model.AnswerKey))
	for _, entry := range model.AnswerKey {
		detail.AnswerKey = append(detail.AnswerKey, AnswerKeyResponse{
			ID:         entry.ID,
			QuestionID: entry.QuestionID,
			Key:        entry.Key,
			Value:      entry.Value,
		})
	}

	detail.Outputs = activeOutputs(detail)
	return detail
}

// NewQuestionResponse converts a question model into its DTO.
func NewQuestionResponse(q models.Question) QuestionResponse {
	response := QuestionResponse{
		ID:     q.ID,
		Text:   q.Text,
		Type:   q.Type,
		Points: q.Points,
		Answer: q.Answer,
	}
	if len(q.Options) > 0 {
		response.Options = make(map[string]string, len(q.Options))
		for key, value := range q.Options {
			if text, ok := value.(string); ok {
				response.Options[key] = text
			}
		}
	}
	return response
}

func activeOutputs(detail AssignmentDetail) []string {
	outputs := make([]string, 0, 6)
	if len(detail.Questions) > 0 {
		outputs = append(outputs, "questions")
	}
	if len(detail.Instructions) > 0 {
		outputs = append(outputs, "instructions")
	}
	if len(detail.Rubric) > 0 {
		outputs = append(outputs, "rubric")
	}
	if len(detail.Checklist) > 0 {
		outputs = append(outputs, "checklist")
	}
	if len(detail.ParticipationCriteria) > 0 {
		outputs = append(outputs, "participation_criteria")
	}
	if len(detail.AnswerKey) > 0 {
		outputs = append(outputs, "answer_key")
	}
	return outputs
}
