package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/models"
)

// AssignmentFilter describes pagination & search options for listings.
type AssignmentFilter struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// AssignmentRepository defines persistence operations for assignments and
// their generated sections.
type AssignmentRepository interface {
	List(ctx context.Context, ownerID uint, filter AssignmentFilter) ([]models.Assignment, int64, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error

	AddQuestion(ctx context.Context, question *models.Question) error
	AddInstruction(ctx context.Context, section *models.InstructionSection) error
	AddRubricItem(ctx context.Context, item *models.RubricItem) error
	AddChecklistItem(ctx context.Context, item *models.ChecklistItem) error
	AddParticipationCriterion(ctx context.Context, criterion *models.ParticipationCriterion) error
	AddAnswerKeyEntry(ctx context.Context, entry *models.AnswerKeyEntry) error
	DeleteSectionItem(ctx context.Context, assignmentID, itemID uint, section string) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) List(ctx context.Context, ownerID uint, filter AssignmentFilter) ([]models.Assignment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{}).Where("owner_id = ?", ownerID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeAssignmentSort(filter.Sort))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var assignments []models.Assignment
	if err := query.Preload("Questions").Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Preload("Questions").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Questions").
		Preload("Instructions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Rubric").
		Preload("Checklist").
		Preload("ParticipationCriteria").
		Preload("AnswerKey").
		First(&assignment, id).Error
	if err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepository) AddQuestion(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *assignmentRepository) AddInstruction(ctx context.Context, section *models.InstructionSection) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *assignmentRepository) AddRubricItem(ctx context.Context, item *models.RubricItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *assignmentRepository) AddChecklistItem(ctx context.Context, item *models.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *assignmentRepository) AddParticipationCriterion(ctx context.Context, criterion *models.ParticipationCriterion) error {
	return r.db.WithContext(ctx).Create(criterion).Error
}

func (r *assignmentRepository) AddAnswerKeyEntry(ctx context.Context, entry *models.AnswerKeyEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DeleteSectionItem removes one row from the named section, scoped to the
// assignment so a stale id cannot touch another assignment's content.
func (r *assignmentRepository) DeleteSectionItem(ctx context.Context, assignmentID, itemID uint, section string) error {
	var model interface{}
	switch section {
	case "questions":
		model = &models.Question{}
	case "instructions":
		model = &models.InstructionSection{}
	case "rubric":
		model = &models.RubricItem{}
	case "checklist":
		model = &models.ChecklistItem{}
	case "participation_criteria":
		model = &models.ParticipationCriterion{}
	case "answer_key":
		model = &models.AnswerKeyEntry{}
	default:
		return fmt.Errorf("unknown section type %q", section)
	}

	result := r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID).Delete(model, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeAssignmentSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "title", "title:asc":
		return "title ASC"
	case "-title", "title:desc":
		return "title DESC"
	case "due_date", "due_date:asc":
		return "due_date ASC"
	case "-due_date", "due_date:desc":
		return "due_date DESC"
	case "updated_at", "updated_at:asc":
		return "updated_at ASC"
	case "-updated_at", "updated_at:desc":
		return "updated_at DESC"
	default:
		return "created_at DESC"
	}
}
