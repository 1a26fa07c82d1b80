package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/models"
)

// ClassroomRepository covers the roster records: classes, students, and
// co-teachers, plus class membership.
type ClassroomRepository interface {
	ListClasses(ctx context.Context) ([]models.Class, error)
	GetClass(ctx context.Context, id uint) (models.Class, error)
	CreateClass(ctx context.Context, class *models.Class) error

	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, student *models.Student) error
	AddStudentToClass(ctx context.Context, classID, studentID uint) error

	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error
	AddTeacherToClass(ctx context.Context, classID, teacherID uint) error
}

type classroomRepository struct {
	db *gorm.DB
}

// NewClassroomRepository instantiates a GORM-backed repository.
func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) ListClasses(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Preload("Students").
		Preload("Teachers").
		Order("name ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classroomRepository) GetClass(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Preload("Students").
		Preload("Teachers").
		First(&class, id).Error
	if err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classroomRepository) CreateClass(ctx context.Context, class *models.Class) error {
	class.Name = strings.TrimSpace(class.Name)
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classroomRepository) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Preload("Classes").Order("name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *classroomRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *classroomRepository) AddStudentToClass(ctx context.Context, classID, studentID uint) error {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, classID).Error; err != nil {
		return err
	}
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, studentID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&class).Association("Students").Append(&student)
}

func (r *classroomRepository) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := r.db.WithContext(ctx).Preload("Classes").Order("name ASC").Find(&teachers).Error; err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *classroomRepository) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	teacher.Email = strings.ToLower(strings.TrimSpace(teacher.Email))
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *classroomRepository) AddTeacherToClass(ctx context.Context, classID, teacherID uint) error {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, classID).Error; err != nil {
		return err
	}
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, teacherID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&class).Association("Teachers").Append(&teacher)
}
