package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/repository"
)

// ErrClassNotFound indicates the class does not exist.
var ErrClassNotFound = errors.New("class not found")

// ClassroomService manages the roster: classes, students and co-teachers.
type ClassroomService interface {
	ListClasses(ctx context.Context) ([]dto.ClassResponse, error)
	GetClass(ctx context.Context, id uint) (dto.ClassResponse, error)
	CreateClass(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error)

	ListStudents(ctx context.Context) ([]dto.StudentResponse, error)
	CreateStudent(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)

	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	CreateTeacher(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error)
}

type classroomService struct {
	repo      repository.ClassroomRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassroomService builds the classroom service.
func NewClassroomService(repo repository.ClassroomRepository, validate *validator.Validate, logger zerolog.Logger) ClassroomService {
	return &classroomService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "classroom_service").Logger(),
	}
}

func (s *classroomService) ListClasses(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.repo.ListClasses(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, dto.NewClassResponse(class))
	}
	return responses, nil
}

func (s *classroomService) GetClass(ctx context.Context, id uint) (dto.ClassResponse, error) {
	class, err := s.repo.GetClass(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func (s *classroomService) CreateClass(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:         payload.Name,
		Description:  payload.Description,
		Subject:      payload.Subject,
		Grade:        payload.Grade,
		Section:      payload.Section,
		AcademicYear: payload.AcademicYear,
	}
	if err := s.repo.CreateClass(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Msg("class created")
	return dto.NewClassResponse(class), nil
}

func (s *classroomService) ListStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewStudentResponse(student))
	}
	return responses, nil
}

func (s *classroomService) CreateStudent(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{Name: payload.Name, Email: payload.Email}
	if err := s.repo.CreateStudent(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	if payload.ClassID != nil {
		if err := s.repo.AddStudentToClass(ctx, *payload.ClassID, student.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrClassNotFound
			}
			return dto.StudentResponse{}, err
		}
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student added to roster")
	return dto.NewStudentResponse(student), nil
}

func (s *classroomService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, dto.NewTeacherResponse(teacher))
	}
	return responses, nil
}

func (s *classroomService) CreateTeacher(ctx context.Context, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher := models.Teacher{Name: payload.Name, Email: payload.Email, Role: payload.Role}
	if err := s.repo.CreateTeacher(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	if payload.ClassID != nil {
		if err := s.repo.AddTeacherToClass(ctx, *payload.ClassID, teacher.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TeacherResponse{}, ErrClassNotFound
			}
			return dto.TeacherResponse{}, err
		}
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher added to roster")
	return dto.NewTeacherResponse(teacher), nil
}
