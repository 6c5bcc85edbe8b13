package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/transcript"
	"github.com/jonathan/interview-coach/internal/types"
)

// DefaultStoreTimeout bounds each store call when no timeout is configured.
const DefaultStoreTimeout = 10 * time.Second

// Store persists feedback records.
type Store interface {
	// UpsertFeedback writes fb at id when id is non-empty, otherwise under the
	// identity the store assigns to (fb.InterviewID, fb.UserID). It returns the identity.
	UpsertFeedback(ctx context.Context, fb *types.Feedback, id string) (string, error)
	// FindFeedback returns the feedback for the pair, or nil when none exists.
	FindFeedback(ctx context.Context, interviewID, userID string) (*types.Feedback, error)
}

// InterviewReader resolves interviews by id; a missing interview is (nil, nil).
type InterviewReader interface {
	GetInterview(ctx context.Context, id string) (*types.Interview, error)
}

// Options configures a Service.
type Options struct {
	ScorePolicy  ScorePolicy
	StoreTimeout time.Duration
	Logger       *slog.Logger
	// Now overrides the clock; nil means time.Now
	Now func() time.Time
}

// Service runs the feedback write path (format, generate, parse, store) and the read path.
type Service struct {
	client       llm.Client
	store        Store
	interviews   InterviewReader
	parser       *Parser
	storeTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewService wires the feedback pipeline from its collaborators.
func NewService(client llm.Client, store Store, interviews InterviewReader, opts Options) *Service {
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
	return &Service{
		client:       client,
		store:        store,
		interviews:   interviews,
		parser:       NewParser(opts.ScorePolicy, logger),
		storeTimeout: timeout,
		logger:       logger.With("component", "feedback"),
		now:          now,
	}
}

// CreateFeedback generates and stores feedback for a transcript. It never returns an error:
// every failure is logged and reported as Success=false, and nothing is persisted.
func (s *Service) CreateFeedback(ctx context.Context, req types.CreateFeedbackRequest) types.CreateFeedbackResult {
	id, err := s.createFeedback(ctx, req)
	if err != nil {
		s.logger.Error("failed to create feedback",
			"interview_id", req.InterviewID,
			"user_id", req.UserID,
			"error", err,
		)
		return types.CreateFeedbackResult{Success: false}
	}
	s.logger.Info("feedback saved", "interview_id", req.InterviewID, "user_id", req.UserID, "feedback_id", id)
	return types.CreateFeedbackResult{Success: true, FeedbackID: id}
}

func (s *Service) createFeedback(ctx context.Context, req types.CreateFeedbackRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid feedback request: %w", err)
	}

	prompt := buildFeedbackPrompt(req.Transcript)

	raw, err := s.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", types.ModelFailure("generate feedback", err)
	}

	assessment, ok := s.parser.Parse(raw)
	if !ok {
		return "", types.OutputFailure("parse feedback", nil)
	}

	record := &types.Feedback{
		ID:          req.FeedbackID,
		InterviewID: req.InterviewID,
		UserID:      req.UserID,
		Assessment:  *assessment,
		CreatedAt:   s.now().UTC(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	id, err := s.store.UpsertFeedback(storeCtx, record, req.FeedbackID)
	if err != nil {
		return "", types.StoreFailure("save feedback", err)
	}
	return id, nil
}

// GetFeedbackByInterviewID returns the stored feedback for the pair, or nil when there is none.
// Store failures are returned, not hidden.
func (s *Service) GetFeedbackByInterviewID(ctx context.Context, interviewID, userID string) (*types.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	fb, err := s.store.FindFeedback(ctx, interviewID, userID)
	if err != nil {
		return nil, types.StoreFailure("find feedback", err)
	}
	return fb, nil
}

// GetFeedbackView resolves the interview and its feedback for display. It returns (nil, nil)
// when the interview does not exist; the caller must redirect or abort. When the interview
// exists but has no feedback, the view carries the placeholder record.
func (s *Service) GetFeedbackView(ctx context.Context, interviewID, userID string) (*types.FeedbackView, error) {
	interview, err := s.getInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if interview == nil {
		return nil, nil
	}

	fb, err := s.GetFeedbackByInterviewID(ctx, interviewID, userID)
	if err != nil {
		return nil, err
	}
	if fb == nil {
		s.logger.Debug("no feedback yet, serving placeholder", "interview_id", interviewID, "user_id", userID)
		return &types.FeedbackView{
			Interview: interview,
			Feedback:  Placeholder(interviewID, userID, s.now().UTC()),
			Source:    types.FeedbackSourcePlaceholder,
		}, nil
	}

	return &types.FeedbackView{
		Interview: interview,
		Feedback:  fb,
		Source:    types.FeedbackSourceReal,
	}, nil
}

func (s *Service) getInterview(ctx context.Context, id string) (*types.Interview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	interview, err := s.interviews.GetInterview(ctx, id)
	if err != nil {
		return nil, types.StoreFailure("get interview", err)
	}
	return interview, nil
}

// buildFeedbackPrompt constructs the transcript analysis prompt
func buildFeedbackPrompt(turns []types.TranscriptTurn) string {
	return prompts.Render("feedback.json", "analyze-transcript", map[string]string{
		"Transcript": transcript.Format(turns),
	})
}
