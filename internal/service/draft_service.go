package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrDraftNotFound indicates no wizard draft is stored for the user.
var ErrDraftNotFound = errors.New("wizard draft not found")

// ErrDraftStoreUnavailable indicates draft persistence is not configured.
var ErrDraftStoreUnavailable = errors.New("draft store unavailable")

// DraftService persists in-progress wizard state between sessions so a
// page reload does not lose it. Drafts expire after the configured TTL.
type DraftService interface {
	Get(ctx context.Context, userID uint) (json.RawMessage, error)
	Save(ctx context.Context, userID uint, draft json.RawMessage) error
	Clear(ctx context.Context, userID uint) error
}

type draftService struct {
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewDraftService builds the draft service. The cache client may be nil;
// every operation then reports the store as unavailable.
func NewDraftService(cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DraftService {
	return &draftService{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "draft_service").Logger(),
	}
}

func (s *draftService) Get(ctx context.Context, userID uint) (json.RawMessage, error) {
	if s.cache == nil {
		return nil, ErrDraftStoreUnavailable
	}

	raw, err := s.cache.Get(ctx, draftKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (s *draftService) Save(ctx context.Context, userID uint, draft json.RawMessage) error {
	if s.cache == nil {
		return ErrDraftStoreUnavailable
	}
	if !json.Valid(draft) {
		return fmt.Errorf("%w: draft must be a JSON document", ErrInvalidResource)
	}

	if err := s.cache.Set(ctx, draftKey(userID), []byte(draft), s.ttl).Err(); err != nil {
		return err
	}

	s.logger.Debug().Uint("user_id", userID).Msg("wizard draft saved")
	return nil
}

func (s *draftService) Clear(ctx context.Context, userID uint) error {
	if s.cache == nil {
		return ErrDraftStoreUnavailable
	}
	return s.cache.Del(ctx, draftKey(userID)).Err()
}

func draftKey(userID uint) string {
	return fmt.Sprintf("draft:wizard:%d", userID)
}
