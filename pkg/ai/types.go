package ai

import (
	"context"
	"encoding/json"
)

// AssignmentInput carries the wizard configuration submitted for generation.
type AssignmentInput struct {
	Title             string
	Topic             string
	Description       string
	Type              string
	TypeTitle         string
	Outputs           []string
	NumberOfQuestions int
	Difficulty        string
	Grade             string
	Subject           string
}

// SyllabusInput carries a prompt-based or extracted-text syllabus request.
type SyllabusInput struct {
	Prompt         string
	AdditionalInfo string
	ExtractedText  string
	CourseName     string
	Subject        string
	Grade          string
	Description    string
}

// Generator describes an AI model capable of authoring course content.
// Responses are raw JSON payloads validated against the content schema
// before callers normalise them.
type Generator interface {
	GenerateAssignment(ctx context.Context, input AssignmentInput) (json.RawMessage, error)
	GenerateSyllabus(ctx context.Context, input SyllabusInput) (json.RawMessage, error)
}
