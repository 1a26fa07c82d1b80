package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/observability"
	"github.com/gradegenie/gradegenie-api/internal/repository"
	"github.com/gradegenie/gradegenie-api/pkg/ai"
	"github.com/gradegenie/gradegenie-api/pkg/pdftext"
)

// ErrCourseNotFound indicates the course does not exist or is not owned by
// the requesting user.
var ErrCourseNotFound = errors.New("course not found")

// ErrEmptyDocument indicates the uploaded syllabus yielded no usable text.
var ErrEmptyDocument = errors.New("no text could be extracted from the document")

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// CourseService exposes course and syllabus use cases.
type CourseService interface {
	List(ctx context.Context, ownerID uint) ([]dto.CourseResponse, error)
	Get(ctx context.Context, ownerID, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, ownerID uint, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	CreateWithAI(ctx context.Context, ownerID uint, payload dto.SyllabusAIRequest) (dto.CourseResponse, error)
	CreateWithUpload(ctx context.Context, ownerID uint, details dto.CourseDetailsPayload, filename string, data []byte) (dto.CourseResponse, error)
	Update(ctx context.Context, ownerID, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, ownerID, id uint) error
	Assignments(ctx context.Context, ownerID, courseID uint) ([]dto.AssignmentSummary, error)
}

type courseService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	generator   ai.Generator
	uploader    FileUploader
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewCourseService builds the course service. The uploader may be nil when
// no document storage is configured.
func NewCourseService(courses repository.CourseRepository, assignments repository.AssignmentRepository, generator ai.Generator, uploader FileUploader, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:     courses,
		assignments: assignments,
		generator:   generator,
		uploader:    uploader,
		validator:   validate,
		logger:      logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, ownerID uint) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, ownerID, id uint) (dto.CourseResponse, error) {
	course, err := s.ownedCourse(ctx, ownerID, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, ownerID uint, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		OwnerID:     ownerID,
		Name:        payload.Title,
		Subject:     payload.Topic,
		Grade:       payload.Level,
		Description: payload.Description,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course created")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) CreateWithAI(ctx context.Context, ownerID uint, payload dto.SyllabusAIRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	raw, err := s.generator.GenerateSyllabus(ctx, ai.SyllabusInput{
		Prompt:         payload.Prompt,
		AdditionalInfo: payload.AdditionalInfo,
		CourseName:     payload.CourseDetails.CourseName,
		Subject:        payload.CourseDetails.Subject,
		Grade:          payload.CourseDetails.Grade,
		Description:    payload.CourseDetails.Description,
	})
	if err != nil {
		observability.Generations().WithLabelValues("syllabus", "error").Inc()
		return dto.CourseResponse{}, err
	}

	syllabus, err := parseSyllabus(raw)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	observability.Generations().WithLabelValues("syllabus", "success").Inc()

	course := models.Course{
		OwnerID:          ownerID,
		Name:             firstFilled(syllabus.CourseTitle, payload.CourseDetails.CourseName),
		Subject:          payload.CourseDetails.Subject,
		Grade:            payload.CourseDetails.Grade,
		Description:      firstFilled(syllabus.CourseDescription, payload.CourseDetails.Description),
		Syllabus:         syllabus,
		AIPrompt:         payload.Prompt,
		AIAdditionalInfo: payload.AdditionalInfo,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course created from prompt")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) CreateWithUpload(ctx context.Context, ownerID uint, details dto.CourseDetailsPayload, filename string, data []byte) (dto.CourseResponse, error) {
	if err := s.validator.Struct(details); err != nil {
		return dto.CourseResponse{}, err
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	if text == "" {
		return dto.CourseResponse{}, ErrEmptyDocument
	}

	raw, err := s.generator.GenerateSyllabus(ctx, ai.SyllabusInput{
		ExtractedText: text,
		CourseName:    details.CourseName,
		Subject:       details.Subject,
		Grade:         details.Grade,
		Description:   details.Description,
	})
	if err != nil {
		observability.Generations().WithLabelValues("syllabus", "error").Inc()
		return dto.CourseResponse{}, err
	}

	syllabus, err := parseSyllabus(raw)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	observability.Generations().WithLabelValues("syllabus", "success").Inc()

	course := models.Course{
		OwnerID:     ownerID,
		Name:        firstFilled(syllabus.CourseTitle, details.CourseName),
		Subject:     details.Subject,
		Grade:       details.Grade,
		Description: firstFilled(syllabus.CourseDescription, details.Description),
		Syllabus:    syllabus,
	}

	if s.uploader != nil {
		url, err := s.uploader.Upload(ctx, filename, bytes.NewReader(data))
		if err != nil {
			s.logger.Warn().Err(err).Str("filename", filename).Msg("syllabus document upload failed")
		} else {
			course.SyllabusPDFURL = url
		}
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("filename", filename).Msg("course created from document")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, ownerID, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.ownedCourse(ctx, ownerID, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.Title != nil {
		course.Name = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.Topic != nil {
		course.Subject = *payload.Topic
	}
	if payload.Level != nil {
		course.Grade = *payload.Level
	}
	if payload.Syllabus != nil {
		course.Syllabus = *payload.Syllabus
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.ownedCourse(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.logger.Info().Uint("course_id", id).Msg("course deleted")
	return nil
}

func (s *courseService) Assignments(ctx context.Context, ownerID, courseID uint) ([]dto.AssignmentSummary, error) {
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.AssignmentSummary, 0, len(assignments))
	for _, assignment := range assignments {
		summaries = append(summaries, dto.NewAssignmentSummary(assignment))
	}
	return summaries, nil
}

func (s *courseService) ownedCourse(ctx context.Context, ownerID, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	if course.OwnerID != ownerID {
		return models.Course{}, ErrCourseNotFound
	}
	return course, nil
}

func parseSyllabus(raw json.RawMessage) (models.ParsedSyllabus, error) {
	var syllabus models.ParsedSyllabus
	if err := json.Unmarshal(raw, &syllabus); err != nil {
		return models.ParsedSyllabus{}, fmt.Errorf("parse syllabus payload: %w", err)
	}
	return syllabus, nil
}
