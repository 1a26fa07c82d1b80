package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/content"
	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/repository"
)

// ErrInvalidSection indicates an unsupported section identifier.
var ErrInvalidSection = errors.New("unknown section type")

// ErrInvalidResource indicates the submitted item fails section rules.
var ErrInvalidResource = errors.New("invalid resource payload")

// ErrResourceNotFound indicates the section item does not exist on the
// assignment.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceService mutates individual assignment sections. Every mutation
// returns the refreshed assignment so the edit screen can reconcile its
// optimistic state against durable ids.
type ResourceService interface {
	AddQuestion(ctx context.Context, ownerID, assignmentID uint, payload dto.QuestionAddRequest) (dto.ResourceAddResponse, error)
	AddInstruction(ctx context.Context, ownerID, assignmentID uint, payload dto.InstructionAddRequest) (dto.ResourceAddResponse, error)
	AddRubricItem(ctx context.Context, ownerID, assignmentID uint, payload dto.CriterionAddRequest) (dto.ResourceAddResponse, error)
	AddChecklistItem(ctx context.Context, ownerID, assignmentID uint, payload dto.ChecklistAddRequest) (dto.ResourceAddResponse, error)
	AddParticipationCriterion(ctx context.Context, ownerID, assignmentID uint, payload dto.CriterionAddRequest) (dto.ResourceAddResponse, error)
	DeleteItem(ctx context.Context, ownerID, assignmentID, itemID uint, section string) (dto.AssignmentDetail, error)
}

type resourceService struct {
	repo      repository.AssignmentRepository
	validator *validator.Validate
	cache     *redis.Client
	logger    zerolog.Logger
}

// NewResourceService builds the resource service. The cache client may be
// nil; invalidation is skipped in that case.
func NewResourceService(repo repository.AssignmentRepository, validate *validator.Validate, cache *redis.Client, logger zerolog.Logger) ResourceService {
	return &resourceService{
		repo:      repo,
		validator: validate,
		cache:     cache,
		logger:    logger.With().Str("component", "resource_service").Logger(),
	}
}

func (s *resourceService) AddQuestion(ctx context.Context, ownerID, assignmentID uint, payload dto.QuestionAddRequest) (dto.ResourceAddResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceAddResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, ownerID, assignmentID)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	options := content.LetterOptions(payload.Options)
	answer := strings.TrimSpace(payload.Answer)
	if len(options) > 0 && answer != "" {
		resolved, ok := resolveAnswer(options, answer)
		if !ok {
			return dto.ResourceAddResponse{}, fmt.Errorf("%w: answer must match one of the options", ErrInvalidResource)
		}
		answer = resolved
	}

	points := payload.Points
	if points <= 0 {
		points = defaultQuestionPoints
	}

	question := models.Question{
		AssignmentID: assignment.ID,
		Text:         strings.TrimSpace(payload.Question),
		Type:         firstFilled(payload.Type, assignment.Type),
		Points:       points,
		Options:      optionMap(options),
		Answer:       answer,
	}
	if err := s.repo.AddQuestion(ctx, &question); err != nil {
		return dto.ResourceAddResponse{}, err
	}

	return s.confirm(ctx, payload.ClientID, question.ID, dto.SectionQuestions, assignment.ID)
}

func (s *resourceService) AddInstruction(ctx context.Context, ownerID, assignmentID uint, payload dto.InstructionAddRequest) (dto.ResourceAddResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceAddResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, ownerID, assignmentID)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	section := models.InstructionSection{
		AssignmentID: assignment.ID,
		Title:        strings.TrimSpace(payload.Title),
		Content:      payload.Content,
		Position:     len(assignment.Instructions),
	}
	if err := s.repo.AddInstruction(ctx, &section); err != nil {
		return dto.ResourceAddResponse{}, err
	}

	return s.confirm(ctx, payload.ClientID, section.ID, dto.SectionInstructions, assignment.ID)
}

func (s *resourceService) AddRubricItem(ctx context.Context, ownerID, assignmentID uint, payload dto.CriterionAddRequest) (dto.ResourceAddResponse, error) {
	criterion, description, points, err := resolveCriterion(payload)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, ownerID, assignmentID)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	item := models.RubricItem{
		AssignmentID: assignment.ID,
		Criterion:    criterion,
		Description:  description,
		Points:       points,
	}
	if err := s.repo.AddRubricItem(ctx, &item); err != nil {
		return dto.ResourceAddResponse{}, err
	}

	return s.confirm(ctx, payload.ClientID, item.ID, dto.SectionRubric, assignment.ID)
}

func (s *resourceService) AddChecklistItem(ctx context.Context, ownerID, assignmentID uint, payload dto.ChecklistAddRequest) (dto.ResourceAddResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResourceAddResponse{}, err
	}
	if strings.TrimSpace(payload.Item) == "" {
		return dto.ResourceAddResponse{}, fmt.Errorf("%w: checklist item must not be blank", ErrInvalidResource)
	}

	assignment, err := s.ownedAssignment(ctx, ownerID, assignmentID)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	item := models.ChecklistItem{
		AssignmentID: assignment.ID,
		Item:         strings.TrimSpace(payload.Item),
		Required:     payload.Required,
	}
	if err := s.repo.AddChecklistItem(ctx, &item); err != nil {
		return dto.ResourceAddResponse{}, err
	}

	return s.confirm(ctx, payload.ClientID, item.ID, dto.SectionChecklist, assignment.ID)
}

func (s *resourceService) AddParticipationCriterion(ctx context.Context, ownerID, assignmentID uint, payload dto.CriterionAddRequest) (dto.ResourceAddResponse, error) {
	criterion, description, points, err := resolveCriterion(payload)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, ownerID, assignmentID)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	item := models.ParticipationCriterion{
		AssignmentID: assignment.ID,
		Criterion:    criterion,
		Description:  description,
		Points:       points,
	}
	if err := s.repo.AddParticipationCriterion(ctx, &item); err != nil {
		return dto.ResourceAddResponse{}, err
	}

	return s.confirm(ctx, payload.ClientID, item.ID, dto.SectionParticipationCriteria, assignment.ID)
}

func (s *resourceService) DeleteItem(ctx context.Context, ownerID, assignmentID, itemID uint, section string) (dto.AssignmentDetail, error) {
	if !validSection(section) {
		return dto.AssignmentDetail{}, fmt.Errorf("%w: %q", ErrInvalidSection, section)
	}

	if _, err := s.ownedAssignment(ctx, ownerID, assignmentID); err != nil {
		return dto.AssignmentDetail{}, err
	}

	if err := s.repo.DeleteSectionItem(ctx, assignmentID, itemID, section); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentDetail{}, ErrResourceNotFound
		}
		return dto.AssignmentDetail{}, err
	}

	s.invalidate(ctx, assignmentID)

	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		return dto.AssignmentDetail{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignmentID).
		Uint("item_id", itemID).
		Str("section", section).
		Msg("section item deleted")

	return dto.NewAssignmentDetail(assignment), nil
}

// confirm invalidates the cached detail, reloads the assignment and wraps
// the refreshed detail together with the echoed client id.
func (s *resourceService) confirm(ctx context.Context, clientID string, resourceID uint, section string, assignmentID uint) (dto.ResourceAddResponse, error) {
	s.invalidate(ctx, assignmentID)

	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		return dto.ResourceAddResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignmentID).
		Uint("resource_id", resourceID).
		Str("section", section).
		Msg("section item added")

	return dto.ResourceAddResponse{
		ClientID:   clientID,
		ResourceID: resourceID,
		Section:    section,
		Assignment: dto.NewAssignmentDetail(assignment),
	}, nil
}

func (s *resourceService) ownedAssignment(ctx context.Context, ownerID, assignmentID uint) (models.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}
	if assignment.OwnerID != ownerID {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	return assignment, nil
}

func (s *resourceService) invalidate(ctx context.Context, assignmentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, detailCacheKey(assignmentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate assignment cache")
	}
}

// resolveCriterion merges the canonical and capitalised field spellings and
// enforces the non-blank rules shared by rubric rows and participation
// criteria.
func resolveCriterion(payload dto.CriterionAddRequest) (string, string, int, error) {
	criterion := strings.TrimSpace(firstFilled(payload.Criterion, payload.CriterionCap))
	description := strings.TrimSpace(firstFilled(payload.Description, payload.DescCap))

	if criterion == "" {
		return "", "", 0, fmt.Errorf("%w: criterion must not be blank", ErrInvalidResource)
	}
	if description == "" {
		return "", "", 0, fmt.Errorf("%w: description must not be blank", ErrInvalidResource)
	}

	points := payload.Points
	if points == 0 {
		points = payload.PointsCap
	}
	if points <= 0 {
		points = defaultQuestionPoints
	}

	return criterion, description, points, nil
}

// resolveAnswer accepts the answer as either option text or an option
// letter and returns the canonical option text.
func resolveAnswer(options map[string]string, answer string) (string, bool) {
	if text, ok := options[strings.ToLower(answer)]; ok {
		return text, true
	}
	for _, text := range options {
		if strings.EqualFold(strings.TrimSpace(text), answer) {
			return text, true
		}
	}
	return "", false
}

func validSection(section string) bool {
	switch section {
	case dto.SectionQuestions, dto.SectionInstructions, dto.SectionRubric,
		dto.SectionChecklist, dto.SectionParticipationCriteria, dto.SectionAnswerKey:
		return true
	}
	return false
}
