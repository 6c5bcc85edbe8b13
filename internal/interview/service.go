// Package interview generates mock interviews and serves interview listings.
package interview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultStoreTimeout bounds each store call when no timeout is configured.
const DefaultStoreTimeout = 10 * time.Second

// DefaultLatestLimit caps GetLatestInterviews when the caller gives no positive limit.
const DefaultLatestLimit = 20

// Store persists and lists interviews. Missing interviews are (nil, nil).
type Store interface {
	CreateInterview(ctx context.Context, interview *types.Interview) (string, error)
	GetInterview(ctx context.Context, id string) (*types.Interview, error)
	ListInterviewsByUser(ctx context.Context, userID string) ([]types.Interview, error)
	ListLatestInterviews(ctx context.Context, userID string, limit int) ([]types.Interview, error)
}

// Options configures a Service.
type Options struct {
	StoreTimeout time.Duration
	Logger       *slog.Logger
	// Now overrides the clock; nil means time.Now
	Now func() time.Time
	// Cover overrides the cover image picker; nil means RandomCover
	Cover func() string
}

// Service generates interviews with the model and reads them back from the store.
type Service struct {
	client       llm.Client
	store        Store
	storeTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
	cover        func() string
}

// NewService wires the interview service from its collaborators.
func NewService(client llm.Client, store Store, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cover := opts.Cover
	if cover == nil {
		cover = RandomCover
	}
	return &Service{
		client:       client,
		store:        store,
		storeTimeout: timeout,
		logger:       logger.With("component", "interview"),
		now:          now,
		cover:        cover,
	}
}

// GenerateQuestions asks the model for interview questions and stores a finalized interview.
func (s *Service) GenerateQuestions(ctx context.Context, req types.GenerateQuestionsRequest) (*types.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generate request: %w", err)
	}

	raw, err := s.client.GenerateContent(ctx, buildQuestionsPrompt(req), llm.TierStandard)
	if err != nil {
		return nil, types.ModelFailure("generate questions", err)
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		s.logger.Warn("model returned unusable questions", "error", err, "raw", raw)
		return nil, types.OutputFailure("parse questions", err)
	}
	if len(questions) != req.Amount {
		s.logger.Debug("question count differs from request", "requested", req.Amount, "received", len(questions))
	}

	interview := &types.Interview{
		Role:       req.Role,
		Type:       req.Type,
		Level:      req.Level,
		Techstack:  SplitTechstack(req.Techstack),
		Questions:  questions,
		UserID:     req.UserID,
		Finalized:  true,
		CoverImage: s.cover(),
		CreatedAt:  s.now().UTC(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	id, err := s.store.CreateInterview(storeCtx, interview)
	if err != nil {
		return nil, types.StoreFailure("save interview", err)
	}
	interview.ID = id

	s.logger.Info("interview generated", "interview_id", id, "user_id", req.UserID, "questions", len(questions))
	return interview, nil
}

// GetInterviewByID returns the interview, or nil when it does not exist.
func (s *Service) GetInterviewByID(ctx context.Context, id string) (*types.Interview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	interview, err := s.store.GetInterview(ctx, id)
	if err != nil {
		return nil, types.StoreFailure("get interview", err)
	}
	return interview, nil
}

// GetInterview satisfies the feedback package's interview lookup.
func (s *Service) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	return s.GetInterviewByID(ctx, id)
}

// GetInterviewsByUserID returns the user's interviews, newest first.
func (s *Service) GetInterviewsByUserID(ctx context.Context, userID string) ([]types.Interview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	interviews, err := s.store.ListInterviewsByUser(ctx, userID)
	if err != nil {
		return nil, types.StoreFailure("list interviews", err)
	}
	return interviews, nil
}

// GetLatestInterviews returns other users' finalized interviews, newest first.
func (s *Service) GetLatestInterviews(ctx context.Context, userID string, limit int) ([]types.Interview, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	interviews, err := s.store.ListLatestInterviews(ctx, userID, limit)
	if err != nil {
		return nil, types.StoreFailure("list latest interviews", err)
	}
	return interviews, nil
}

// Dashboard loads the user's interviews and the latest interviews of others concurrently.
func (s *Service) Dashboard(ctx context.Context, userID string, limit int) (*types.Dashboard, error) {
	var dashboard types.Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		interviews, err := s.GetInterviewsByUserID(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.UserInterviews = interviews
		return nil
	})
	g.Go(func() error {
		interviews, err := s.GetLatestInterviews(gctx, userID, limit)
		if err != nil {
			return err
		}
		dashboard.LatestInterviews = interviews
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
