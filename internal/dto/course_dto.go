package dto

import (
	"time"

	"github.com/gradegenie/gradegenie-api/internal/models"
)

// CourseCreateRequest creates a course without a syllabus.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	Level       string `json:"level"`
}

// CourseDetailsPayload carries the wizard's course details step.
type CourseDetailsPayload struct {
	CourseName  string `json:"courseName" validate:"required,min=2"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Grade       string `json:"grade"`
}

// SyllabusAIRequest generates a syllabus from a prompt.
type SyllabusAIRequest struct {
	Prompt         string               `json:"prompt" validate:"required,min=10"`
	AdditionalInfo string               `json:"additionalInfo"`
	CourseDetails  CourseDetailsPayload `json:"courseDetails" validate:"required"`
}

// CourseUpdateRequest replaces the course header and parsed syllabus. The
// syllabus round-trips through the same mapping the editor uses.
type CourseUpdateRequest struct {
	Title       *string                `json:"title" validate:"omitempty,min=2"`
	Description *string                `json:"description"`
	Topic       *string                `json:"topic"`
	Level       *string                `json:"level"`
	Syllabus    *models.ParsedSyllabus `json:"parsed_syllabus"`
}

// GradingSummary reports the grading-policy percentage total. A total
// different from 100 surfaces a warning but is never rejected.
type GradingSummary struct {
	Total   int    `json:"total"`
	Warning string `json:"warning,omitempty"`
}

// CourseResponse is the serialized course representation.
type CourseResponse struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"course_name"`
	Subject        string                `json:"subject"`
	Grade          string                `json:"grade"`
	Description    string                `json:"description"`
	SyllabusPDFURL string                `json:"syllabus_pdf_url,omitempty"`
	Syllabus       models.ParsedSyllabus `json:"parsed_syllabus"`
	Grading        GradingSummary        `json:"grading"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// NewCourseResponse converts a course model into its DTO, computing the
// grading summary on the way out.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:             model.ID,
		Name:           model.Name,
		Subject:        model.Subject,
		Grade:          model.Grade,
		Description:    model.Description,
		SyllabusPDFURL: model.SyllabusPDFURL,
		Syllabus:       model.Syllabus,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
	response.Grading = NewGradingSummary(model.Syllabus)
	return response
}

// NewGradingSummary computes the percentage total and its warning text.
func NewGradingSummary(syllabus models.ParsedSyllabus) GradingSummary {
	summary := GradingSummary{Total: syllabus.GradingTotal()}
	if len(syllabus.GradingPolicy) == 0 {
		return summary
	}
	switch {
	case summary.Total < 100:
		summary.Warning = "grading policy total is missing percentage points"
	case summary.Total > 100:
		summary.Warning = "grading policy total exceeds 100 percent"
	}
	return summary
}

// NewCourseResponseSlice converts a slice of course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
