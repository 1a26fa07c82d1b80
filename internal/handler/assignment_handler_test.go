package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/content"
	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/handler"
	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/repository"
	"github.com/gradegenie/gradegenie-api/internal/service"
	"github.com/gradegenie/gradegenie-api/pkg/ai"
	"github.com/gradegenie/gradegenie-api/pkg/lms"
)

type fixedGenerator struct {
	payload json.RawMessage
}

func (g fixedGenerator) GenerateAssignment(context.Context, ai.AssignmentInput) (json.RawMessage, error) {
	return g.payload, nil
}

func (g fixedGenerator) GenerateSyllabus(context.Context, ai.SyllabusInput) (json.RawMessage, error) {
	return g.payload, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(lms.PublishEvent) error { return nil }

func newAssignmentApp(t *testing.T, generator ai.Generator) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	repo := repository.NewAssignmentRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	assignments := service.NewAssignmentService(repo, validate, nil, time.Minute, nopLogger)
	generation := service.NewGenerationService(repo, generator, content.NewRenderer(), nopPublisher{}, validate, nopLogger)
	resources := service.NewResourceService(repo, validate, nil, nopLogger)

	assignmentHandler := handler.NewAssignmentHandler(assignments, generation, nopLogger)
	resourceHandler := handler.NewResourceHandler(resources, nopLogger)

	app := fiber.New()
	group := app.Group("/api/assignment", asUser(1))
	assignmentHandler.RegisterGenerate(group)
	assignmentHandler.Register(group)
	resourceHandler.Register(group)
	return app, db
}

func seedQuiz(t *testing.T, db *gorm.DB, ownerID uint) models.Assignment {
	t.Helper()
	assignment := models.Assignment{
		OwnerID: ownerID,
		Title:   "Photosynthesis Quiz",
		Type:    models.TypeMultipleChoiceQuiz,
		Questions: []models.Question{
			{Text: "What gas do plants absorb?", Points: 5},
		},
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func TestAssignmentHandler_GetAndList(t *testing.T) {
	app, db := newAssignmentApp(t, fixedGenerator{})
	assignment := seedQuiz(t, db, 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/assignment", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.AssignmentListResponse
	dataAs(t, decodeResponse(t, resp), &list)
	require.Len(t, list.Items, 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/assignment/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail dto.AssignmentDetail
	dataAs(t, decodeResponse(t, resp), &detail)
	require.Equal(t, assignment.Title, detail.Title)
}

func TestAssignmentHandler_NotFound(t *testing.T) {
	app, _ := newAssignmentApp(t, fixedGenerator{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/assignment/99", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/assignment/not-a-number", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentHandler_Answers(t *testing.T) {
	app, db := newAssignmentApp(t, fixedGenerator{})
	assignment := seedQuiz(t, db, 1)
	entry := models.AnswerKeyEntry{
		AssignmentID: assignment.ID,
		QuestionID:   assignment.Questions[0].ID,
		Key:          "1",
		Value:        "Carbon dioxide",
	}
	require.NoError(t, db.Create(&entry).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/assignment/answers/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var answers []dto.AnswerKeyResponse
	dataAs(t, decodeResponse(t, resp), &answers)
	require.Len(t, answers, 1)
	require.Equal(t, "Carbon dioxide", answers[0].Value)
	require.Equal(t, assignment.Questions[0].ID, answers[0].QuestionID)
}

func TestAssignmentHandler_Generate(t *testing.T) {
	payload := json.RawMessage(`{
		"title": "Photosynthesis Quiz",
		"questions": [
			{"question": "What gas do plants absorb?", "options": ["Oxygen", "Carbon dioxide"], "answer": "b"}
		]
	}`)
	app, _ := newAssignmentApp(t, fixedGenerator{payload: payload})

	resp, err := app.Test(postJSON("/api/assignment/generate", `{"title":"Photosynthesis Quiz","type":"multiple_choice_quiz","numberOfQuestions":1}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var generated dto.GenerateResponse
	dataAs(t, decodeResponse(t, resp), &generated)
	require.NotZero(t, generated.Assignment.ID)
	require.Equal(t, "Carbon dioxide", generated.Assignment.Questions[0].Answer)
	require.Contains(t, generated.Rendered, "questions")
}

func TestAssignmentHandler_GenerateUnknownType(t *testing.T) {
	app, _ := newAssignmentApp(t, fixedGenerator{payload: json.RawMessage(`{}`)})

	resp, err := app.Test(postJSON("/api/assignment/generate", `{"title":"Mystery","type":"crossword"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentHandler_UpdateAndDelete(t *testing.T) {
	app, db := newAssignmentApp(t, fixedGenerator{})
	seedQuiz(t, db, 1)

	resp, err := app.Test(patchJSON("/api/assignment/1", `{"title":"Photosynthesis Quiz v2"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail dto.AssignmentDetail
	dataAs(t, decodeResponse(t, resp), &detail)
	require.Equal(t, "Photosynthesis Quiz v2", detail.Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/assignment/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/assignment/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssignmentHandler_ExportPDF(t *testing.T) {
	app, db := newAssignmentApp(t, fixedGenerator{})
	seedQuiz(t, db, 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/assignment/1/export", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "photosynthesis-quiz.pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "%PDF", string(body[:4]))
}
