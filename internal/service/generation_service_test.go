package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/gradegenie/gradegenie-api/internal/content"
	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/repository"
	"github.com/gradegenie/gradegenie-api/pkg/ai"
	"github.com/gradegenie/gradegenie-api/pkg/lms"
)

type generatorStub struct {
	assignment json.RawMessage
	syllabus   json.RawMessage
	lastInput  ai.AssignmentInput
	err        error
}

func (g *generatorStub) GenerateAssignment(_ context.Context, input ai.AssignmentInput) (json.RawMessage, error) {
	g.lastInput = input
	if g.err != nil {
		return nil, g.err
	}
	return g.assignment, nil
}

func (g *generatorStub) GenerateSyllabus(_ context.Context, _ ai.SyllabusInput) (json.RawMessage, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.syllabus, nil
}

type publisherStub struct {
	events []lms.PublishEvent
}

func (p *publisherStub) Publish(event lms.PublishEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newGenerationFixture(t *testing.T, generator ai.Generator) (GenerationService, repository.AssignmentRepository, *publisherStub) {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewAssignmentRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	publisher := &publisherStub{}
	svc := NewGenerationService(repo, generator, content.NewRenderer(), publisher, validate, testLogger())
	return svc, repo, publisher
}

const quizPayload = `{
	"title": "Cell Biology Quiz",
	"subject": "Biology",
	"topic": "Cell Structure",
	"grade": 9,
	"difficultyLevel": "medium",
	"questions": [
		{"question": "Which organelle produces ATP?", "options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi"], "answer": "Mitochondria", "points": 2},
		{"question": "What surrounds a plant cell?", "options": {"a": "Cell wall", "b": "Membrane only"}, "answer": "a"},
		{"question": "Where is DNA stored?", "options": ["Nucleus", "Cytoplasm"], "correctAnswer": "Nucleus"},
		{"questionText": "What do ribosomes make?", "options": ["Lipids", "Proteins"], "answer": "Proteins", "marks": 3},
		{"question": "Which organelle packages proteins?", "options": ["Golgi", "Lysosome"], "answer": "Golgi"}
	],
	"rubric": [{"criterion": "Accuracy", "description": "Correct answers", "points": 10}]
}`

func TestGenerateMultipleChoiceQuiz(t *testing.T) {
	generator := &generatorStub{assignment: json.RawMessage(quizPayload)}
	svc, _, _ := newGenerationFixture(t, generator)

	response, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{
		Title:             "Cell Biology Quiz",
		Type:              "multiple_choice_quiz",
		Subject:           "Biology",
		Grade:             "9",
		NumberOfQuestions: 5,
	})
	require.NoError(t, err)

	assignment := response.Assignment
	require.NotZero(t, assignment.ID)
	require.Len(t, assignment.Questions, 5)

	// A quiz produces exactly questions and an answer key; the rubric the
	// model volunteered must be dropped.
	require.Equal(t, []string{"questions", "answer_key"}, assignment.Outputs)
	require.Empty(t, assignment.Rubric)
	require.Len(t, assignment.AnswerKey, 5)

	// Options arrive as arrays or maps; both end up letter-keyed.
	first := assignment.Questions[0]
	require.Equal(t, "Mitochondria", first.Options["b"])
	require.Equal(t, "Mitochondria", first.Answer)
	require.Equal(t, 2, first.Points)

	// A letter answer resolves to its option text.
	second := assignment.Questions[1]
	require.Equal(t, "Cell wall", second.Answer)

	// Unset points default to 5.
	require.Equal(t, 5, assignment.Questions[4].Points)
	require.Equal(t, 3, assignment.Questions[3].Points)

	require.NotEmpty(t, response.Rendered["questions"])
	require.NotEmpty(t, response.Rendered["answer_key"])
	require.NotContains(t, response.Rendered, "rubric")
}

func TestGenerateNormalizesUnrulyQuizOptions(t *testing.T) {
	payload := `{
		"title": "Color Quiz",
		"questions": [
			{"question": "Pick a primary color", "options": ["Red", "Blue"], "answer": "Green"},
			{"question": "Is the sky blue?", "options": {"A": "Yes", "B": "No"}, "answer": "A"}
		]
	}`
	generator := &generatorStub{assignment: json.RawMessage(payload)}
	svc, _, _ := newGenerationFixture(t, generator)

	response, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{
		Title: "Color Quiz",
		Type:  "multiple_choice_quiz",
	})
	require.NoError(t, err)

	// An answer matching no option is blanked, not persisted verbatim, and
	// produces no answer key entry.
	first := response.Assignment.Questions[0]
	require.Empty(t, first.Answer)

	// Uppercase option keys are re-keyed to lowercase letters and the
	// letter answer still resolves through them.
	second := response.Assignment.Questions[1]
	require.Equal(t, map[string]string{"a": "Yes", "b": "No"}, second.Options)
	require.Equal(t, "Yes", second.Answer)

	require.Len(t, response.Assignment.AnswerKey, 1)
	require.Equal(t, "a", response.Assignment.AnswerKey[0].Key)
	require.Equal(t, "Yes", response.Assignment.AnswerKey[0].Value)
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	generator := &generatorStub{assignment: json.RawMessage(`{}`)}
	svc, _, _ := newGenerationFixture(t, generator)

	_, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{
		Title: "Mystery Assignment",
		Type:  "crossword",
	})
	require.ErrorIs(t, err, ErrUnknownAssignmentType)
}

func TestGeneratePublishesToLMS(t *testing.T) {
	generator := &generatorStub{assignment: json.RawMessage(quizPayload)}
	svc, _, publisher := newGenerationFixture(t, generator)

	response, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{
		Title:        "Cell Biology Quiz",
		Type:         "multiple_choice_quiz",
		PublishToLMS: []string{"canvas", "google_classroom"},
	})
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	require.Equal(t, response.Assignment.ID, publisher.events[0].AssignmentID)
	require.Equal(t, []string{"canvas", "google_classroom"}, publisher.events[0].Targets)
	require.Equal(t, []string{"canvas", "google_classroom"}, response.Assignment.PublishTargets)
}

func TestGenerateEssayWithLegacyStringSections(t *testing.T) {
	payload := `{
		"title": "Climate Essay",
		"questions": [{"question": "Discuss one driver of climate change."}],
		"instructions": "Write a five paragraph essay citing two sources.",
		"rubric": [{"Criterion": "Argument", "Description": "Clear thesis", "Points": 20}]
	}`
	generator := &generatorStub{assignment: json.RawMessage(payload)}
	svc, _, _ := newGenerationFixture(t, generator)

	response, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{
		Title: "Climate Essay",
		Type:  "essay",
	})
	require.NoError(t, err)

	// The plain-string instructions survive as rendered HTML even though
	// no structured instruction rows were stored.
	require.Contains(t, response.Rendered["instructions"], "five paragraph essay")
	require.Empty(t, response.Assignment.Instructions)

	// Capitalised rubric keys normalise to the canonical fields.
	require.Len(t, response.Assignment.Rubric, 1)
	require.Equal(t, "Argument", response.Assignment.Rubric[0].Criterion)
	require.Equal(t, 20, response.Assignment.Rubric[0].Points)

	// Essays carry no answer key.
	require.NotContains(t, response.Assignment.Outputs, "answer_key")
}

func TestGenerateDefaultsQuestionCount(t *testing.T) {
	generator := &generatorStub{assignment: json.RawMessage(quizPayload)}
	svc, _, _ := newGenerationFixture(t, generator)

	_, err := svc.Generate(context.Background(), 1, dto.GenerateRequest{
		Title: "Cell Biology Quiz",
		Type:  "multiple_choice_quiz",
	})
	require.NoError(t, err)
	require.Equal(t, 5, generator.lastInput.NumberOfQuestions)
}
