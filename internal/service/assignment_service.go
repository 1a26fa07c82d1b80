package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/repository"
)

// ErrAssignmentNotFound indicates the assignment does not exist or is not
// owned by the requesting user.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentService exposes assignment read, update and delete use cases.
// All operations are scoped to the owning user.
type AssignmentService interface {
	List(ctx context.Context, ownerID uint, filter repository.AssignmentFilter) (dto.AssignmentListResponse, error)
	Get(ctx context.Context, ownerID, id uint) (dto.AssignmentDetail, error)
	Answers(ctx context.Context, ownerID, id uint) ([]dto.AnswerKeyResponse, error)
	Update(ctx context.Context, ownerID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentDetail, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewAssignmentService builds the assignment service. The cache client may
// be nil; detail caching is skipped in that case.
func NewAssignmentService(repo repository.AssignmentRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:      repo,
		validator: validate,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, ownerID uint, filter repository.AssignmentFilter) (dto.AssignmentListResponse, error) {
	filter.Page = maxInt(filter.Page, 1)
	filter.PageSize = clampPageSize(filter.PageSize)

	assignments, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	items := make([]dto.AssignmentSummary, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, dto.NewAssignmentSummary(assignment))
	}

	pagination := dto.PaginationMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}

	return dto.AssignmentListResponse{Items: items, Pagination: pagination}, nil
}

func (s *assignmentService) Get(ctx context.Context, ownerID, id uint) (dto.AssignmentDetail, error) {
	if cached, ok := s.cachedDetail(ctx, id); ok {
		if cached.ID == id {
			if detailOwnedBy(cached, ownerID) {
				return cached, nil
			}
			return dto.AssignmentDetail{}, ErrAssignmentNotFound
		}
	}

	detail, err := s.loadDetail(ctx, ownerID, id)
	if err != nil {
		return dto.AssignmentDetail{}, err
	}

	s.storeDetail(ctx, detail)
	return detail, nil
}

func (s *assignmentService) Answers(ctx context.Context, ownerID, id uint) ([]dto.AnswerKeyResponse, error) {
	detail, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return detail.AnswerKey, nil
}

func (s *assignmentService) Update(ctx context.Context, ownerID, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentDetail, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentDetail{}, err
	}

	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentDetail{}, ErrAssignmentNotFound
		}
		return dto.AssignmentDetail{}, err
	}
	if assignment.OwnerID != ownerID {
		return dto.AssignmentDetail{}, ErrAssignmentNotFound
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.Type != nil {
		assignment.Type = *payload.Type
	}
	if payload.DueDate != nil {
		if *payload.DueDate == "" {
			assignment.DueDate = nil
		} else {
			dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
			if err != nil {
				return dto.AssignmentDetail{}, fmt.Errorf("invalid due date: %w", err)
			}
			assignment.DueDate = &dueDate
		}
	}

	if err := s.repo.Update(ctx, &assignment); err != nil {
		return dto.AssignmentDetail{}, err
	}

	s.invalidateDetail(ctx, id)

	detail := dto.NewAssignmentDetail(assignment)
	s.storeDetail(ctx, detail)

	s.logger.Info().Uint("assignment_id", id).Msg("assignment updated")
	return detail, nil
}

func (s *assignmentService) Delete(ctx context.Context, ownerID, id uint) error {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.OwnerID != ownerID {
		return ErrAssignmentNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.invalidateDetail(ctx, id)
	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) loadDetail(ctx context.Context, ownerID, id uint) (dto.AssignmentDetail, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentDetail{}, ErrAssignmentNotFound
		}
		return dto.AssignmentDetail{}, err
	}
	if assignment.OwnerID != ownerID {
		return dto.AssignmentDetail{}, ErrAssignmentNotFound
	}

	return dto.NewAssignmentDetail(assignment), nil
}

func (s *assignmentService) cachedDetail(ctx context.Context, id uint) (dto.AssignmentDetail, bool) {
	if s.cache == nil {
		return dto.AssignmentDetail{}, false
	}

	raw, err := s.cache.Get(ctx, detailCacheKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read assignment cache")
		}
		return dto.AssignmentDetail{}, false
	}

	var detail dto.AssignmentDetail
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		return dto.AssignmentDetail{}, false
	}
	return detail, true
}

func (s *assignmentService) storeDetail(ctx context.Context, detail dto.AssignmentDetail) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, detailCacheKey(detail.ID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store assignment cache")
	}
}

func (s *assignmentService) invalidateDetail(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, detailCacheKey(id)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate assignment cache")
	}
}

func detailCacheKey(id uint) string {
	return fmt.Sprintf("assignment:detail:%d", id)
}

func detailOwnedBy(detail dto.AssignmentDetail, ownerID uint) bool {
	return detail.OwnerID == ownerID
}
