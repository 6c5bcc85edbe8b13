package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

// DefaultTTL is how long a cached interview lives when no TTL is configured.
const DefaultTTL = 24 * time.Hour

const interviewKeyPrefix = "interview:"

// InterviewStore decorates an interview store with a read-through cache for GetInterview.
// Only finalized interviews are cached since they no longer change. Cache failures are
// logged and fall through to the backing store.
type InterviewStore struct {
	next   interview.Store
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

// NewInterviewStore wraps next with a cache held in kv.
func NewInterviewStore(next interview.Store, kv KV, ttl time.Duration, logger *slog.Logger) *InterviewStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InterviewStore{
		next:   next,
		kv:     kv,
		ttl:    ttl,
		logger: logger.With("component", "interview_cache"),
	}
}

func interviewKey(id string) string {
	return interviewKeyPrefix + id
}

// GetInterview serves a cached finalized interview or reads through to the store.
func (s *InterviewStore) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	key := interviewKey(id)

	data, found, err := s.kv.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("cache read failed", "interview_id", id, "error", err)
	case found:
		var cached types.Interview
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		s.logger.Warn("dropping undecodable cache entry", "interview_id", id)
		_ = s.kv.Del(ctx, key)
	}

	result, err := s.next.GetInterview(ctx, id)
	if err != nil || result == nil || !result.Finalized {
		return result, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := s.kv.Set(ctx, key, encoded, s.ttl); err != nil {
			s.logger.Warn("cache write failed", "interview_id", id, "error", err)
		}
	}
	return result, nil
}

// CreateInterview writes through to the store.
func (s *InterviewStore) CreateInterview(ctx context.Context, i *types.Interview) (string, error) {
	return s.next.CreateInterview(ctx, i)
}

// ListInterviewsByUser is not cached.
func (s *InterviewStore) ListInterviewsByUser(ctx context.Context, userID string) ([]types.Interview, error) {
	return s.next.ListInterviewsByUser(ctx, userID)
}

// ListLatestInterviews is not cached.
func (s *InterviewStore) ListLatestInterviews(ctx context.Context, userID string, limit int) ([]types.Interview, error) {
	return s.next.ListLatestInterviews(ctx, userID, limit)
}
