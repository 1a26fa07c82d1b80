package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/repository"
)

type uploaderStub struct {
	url      string
	uploaded string
}

func (u *uploaderStub) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	u.uploaded = name
	return u.url, nil
}

func newCourseFixture(t *testing.T, generator *generatorStub, uploader FileUploader) (CourseService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	courses := repository.NewCourseRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(courses, assignments, generator, uploader, validate, testLogger())
	return svc, db
}

const syllabusPayload = `{
	"course_title": "Introduction to Marine Biology",
	"term": "Fall 2026",
	"course_description": "Survey of ocean ecosystems.",
	"learning_objectives": ["Identify major marine phyla"],
	"grading_policy": {
		"exams": {"percentage": 40, "description": "Two exams"},
		"labs": {"percentage": 35, "description": "Weekly labs"},
		"participation": {"percentage": 25, "description": "Discussion"}
	},
	"weekly_schedule": [{"week": 1, "topic": "Ocean zones"}]
}`

func TestCourseCreateWithAI(t *testing.T) {
	generator := &generatorStub{syllabus: json.RawMessage(syllabusPayload)}
	svc, _ := newCourseFixture(t, generator, nil)

	course, err := svc.CreateWithAI(context.Background(), 1, dto.SyllabusAIRequest{
		Prompt: "Design an introductory marine biology course",
		CourseDetails: dto.CourseDetailsPayload{
			CourseName: "Marine Biology 101",
			Subject:    "Biology",
			Grade:      "11",
		},
	})
	require.NoError(t, err)

	// The generated title wins over the wizard's working name.
	require.Equal(t, "Introduction to Marine Biology", course.Name)
	require.Equal(t, "Fall 2026", course.Syllabus.Term)
	require.Len(t, course.Syllabus.WeeklySchedule, 1)
	require.Equal(t, 100, course.Grading.Total)
	require.Empty(t, course.Grading.Warning)
}

func TestGradingSummaryWarnsBelowHundred(t *testing.T) {
	syllabus := models.ParsedSyllabus{
		GradingPolicy: map[string]models.GradingComponent{
			"exams": {Percentage: 40},
			"labs":  {Percentage: 30},
		},
	}
	summary := dto.NewGradingSummary(syllabus)
	require.Equal(t, 70, summary.Total)
	require.Contains(t, summary.Warning, "missing")
}

func TestGradingSummaryWarnsAboveHundred(t *testing.T) {
	syllabus := models.ParsedSyllabus{
		GradingPolicy: map[string]models.GradingComponent{
			"exams": {Percentage: 60},
			"labs":  {Percentage: 55},
		},
	}
	summary := dto.NewGradingSummary(syllabus)
	require.Equal(t, 115, summary.Total)
	require.Contains(t, summary.Warning, "exceeds")
}

func TestGradingSummarySilentWithoutPolicy(t *testing.T) {
	summary := dto.NewGradingSummary(models.ParsedSyllabus{})
	require.Zero(t, summary.Total)
	require.Empty(t, summary.Warning)
}

func TestCourseUpdateRoundTripsSyllabus(t *testing.T) {
	generator := &generatorStub{syllabus: json.RawMessage(syllabusPayload)}
	svc, _ := newCourseFixture(t, generator, nil)

	course, err := svc.CreateWithAI(context.Background(), 1, dto.SyllabusAIRequest{
		Prompt:        "Design an introductory marine biology course",
		CourseDetails: dto.CourseDetailsPayload{CourseName: "Marine Biology 101"},
	})
	require.NoError(t, err)

	edited := course.Syllabus
	edited.GradingPolicy["field trips"] = models.GradingComponent{Percentage: 10, Description: "Two excursions"}

	updated, err := svc.Update(context.Background(), 1, course.ID, dto.CourseUpdateRequest{Syllabus: &edited})
	require.NoError(t, err)
	require.Equal(t, 110, updated.Grading.Total)
	require.Contains(t, updated.Grading.Warning, "exceeds")

	reloaded, err := svc.Get(context.Background(), 1, course.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Syllabus.GradingPolicy, 4)
}

func TestCourseCreatePlain(t *testing.T) {
	svc, _ := newCourseFixture(t, &generatorStub{}, nil)

	course, err := svc.Create(context.Background(), 1, dto.CourseCreateRequest{
		Title: "World History",
		Topic: "History",
		Level: "10",
	})
	require.NoError(t, err)
	require.Equal(t, "World History", course.Name)
	require.Equal(t, "History", course.Subject)
	require.Equal(t, "10", course.Grade)
	require.Empty(t, course.Grading.Warning)
}

func TestCourseGetEnforcesOwnership(t *testing.T) {
	svc, _ := newCourseFixture(t, &generatorStub{}, nil)

	course, err := svc.Create(context.Background(), 1, dto.CourseCreateRequest{Title: "World History"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, course.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseDelete(t *testing.T) {
	svc, _ := newCourseFixture(t, &generatorStub{}, nil)

	course, err := svc.Create(context.Background(), 1, dto.CourseCreateRequest{Title: "World History"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), 1, course.ID))

	_, err = svc.Get(context.Background(), 1, course.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseAssignmentsListsByCourse(t *testing.T) {
	svc, db := newCourseFixture(t, &generatorStub{}, nil)

	course, err := svc.Create(context.Background(), 1, dto.CourseCreateRequest{Title: "World History"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Assignment{
		OwnerID:  1,
		CourseID: &course.ID,
		Title:    "Unit 1 Essay",
		Type:     "essay",
	}).Error)
	require.NoError(t, db.Create(&models.Assignment{
		OwnerID: 1,
		Title:   "Unattached Quiz",
		Type:    models.TypeMultipleChoiceQuiz,
	}).Error)

	items, err := svc.Assignments(context.Background(), 1, course.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Unit 1 Essay", items[0].Title)
}
