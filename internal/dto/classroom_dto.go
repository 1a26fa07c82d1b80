package dto

import (
	"time"

	"github.com/gradegenie/gradegenie-api/internal/models"
)

// ClassCreateRequest creates a roster class.
type ClassCreateRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Description  string `json:"description"`
	Subject      string `json:"subject"`
	Grade        string `json:"grade"`
	Section      string `json:"section"`
	AcademicYear string `json:"academic_year"`
}

// StudentCreateRequest adds a student to the roster.
type StudentCreateRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	ClassID *uint  `json:"class_id"`
}

// TeacherCreateRequest adds a co-teacher to the roster.
type TeacherCreateRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Role    string `json:"role"`
	ClassID *uint  `json:"class_id"`
}

// ClassMembership is how a student's or teacher's class appears in
// roster tables.
type ClassMembership struct {
	ClassID      uint   `json:"class_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Grade        string `json:"grade"`
	Section      string `json:"section"`
	AcademicYear string `json:"academic_year"`
}

// ClassResponse lists member ids the way the management tables consume them.
type ClassResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Subject      string    `json:"subject"`
	Grade        string    `json:"grade"`
	Section      string    `json:"section"`
	AcademicYear string    `json:"academic_year"`
	Students     []uint    `json:"students"`
	Teachers     []uint    `json:"teachers"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentResponse is one student roster row.
type StudentResponse struct {
	ID      uint              `json:"id"`
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Classes []ClassMembership `json:"classes"`
}

// TeacherResponse is one co-teacher roster row.
type TeacherResponse struct {
	ID      uint              `json:"id"`
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Role    string            `json:"role"`
	Classes []ClassMembership `json:"classes"`
}

// NewClassResponse converts a class model into its DTO.
func NewClassResponse(model models.Class) ClassResponse {
	response := ClassResponse{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		Subject:      model.Subject,
		Grade:        model.Grade,
		Section:      model.Section,
		AcademicYear: model.AcademicYear,
		Students:     make([]uint, 0, len(model.Students)),
		Teachers:     make([]uint, 0, len(model.Teachers)),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	for _, student := range model.Students {
		response.Students = append(response.Students, student.ID)
	}
	for _, teacher := range model.Teachers {
		response.Teachers = append(response.Teachers, teacher.ID)
	}
	return response
}

// NewStudentResponse converts a student model into its DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:      model.ID,
		Name:    model.Name,
		Email:   model.Email,
		Classes: memberships(model.Classes),
	}
}

// NewTeacherResponse converts a teacher model into its DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:      model.ID,
		Name:    model.Name,
		Email:   model.Email,
		Role:    model.Role,
		Classes: memberships(model.Classes),
	}
}

func memberships(classes []*models.Class) []ClassMembership {
	result := make([]ClassMembership, 0, len(classes))
	for _, class := range classes {
		if class == nil {
			continue
		}
		result = append(result, ClassMembership{
			ClassID:      class.ID,
			Name:         class.Name,
			Description:  class.Description,
			Grade:        class.Grade,
			Section:      class.Section,
			AcademicYear: class.AcademicYear,
		})
	}
	return result
}
