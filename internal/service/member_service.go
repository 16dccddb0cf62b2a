package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/dto"
	"github.com/alumlink/alumlink-api/internal/repository"
)

// MemberService serves the batch member directory, backed by a short-lived
// redis cache since the roster changes rarely but is read on every page.
type MemberService interface {
	ListMembers(ctx context.Context, batchID string) ([]dto.MemberResponse, error)
	InvalidateBatch(ctx context.Context, batchID string)
}

type memberService struct {
	batches repository.BatchRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewMemberService constructs the member directory service. The cache client
// may be nil, in which case every read hits the database.
func NewMemberService(batches repository.BatchRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) MemberService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &memberService{
		batches: batches,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "member_service").Logger(),
	}
}

func (s *memberService) ListMembers(ctx context.Context, batchID string) ([]dto.MemberResponse, error) {
	cacheKey := ""
	if s.cache != nil {
		cacheKey = memberCacheKey(batchID)
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var members []dto.MemberResponse
			if err := json.Unmarshal([]byte(cached), &members); err == nil {
				return members, nil
			}
		}
	}

	if _, err := s.batches.Find(ctx, batchID); err != nil {
		return nil, err
	}

	memberships, err := s.batches.ListMembers(ctx, batchID)
	if err != nil {
		return nil, err
	}

	members := make([]dto.MemberResponse, 0, len(memberships))
	for _, membership := range memberships {
		members = append(members, dto.NewMemberResponse(membership))
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})

	if cacheKey != "" && s.cache != nil {
		if payload, err := json.Marshal(members); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache member directory")
			}
		}
	}

	return members, nil
}

// InvalidateBatch drops the cached roster, used after signups and profile
// updates so the directory reflects them promptly.
func (s *memberService) InvalidateBatch(ctx context.Context, batchID string) {
	if s.cache == nil || batchID == "" {
		return
	}
	if err := s.cache.Del(ctx, memberCacheKey(batchID)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("batch_id", batchID).Msg("failed to invalidate member directory cache")
	}
}

func memberCacheKey(batchID string) string {
	return fmt.Sprintf("members:batch:v1:%s", batchID)
}
