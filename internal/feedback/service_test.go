package feedback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return validPayload, nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return validPayload, nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

// memoryStore is an in-memory Store keyed like the database: explicit id or the pair.
type memoryStore struct {
	mu        sync.Mutex
	records   map[string]*types.Feedback
	upserts   int
	upsertErr error
	findErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*types.Feedback{}}
}

func (m *memoryStore) UpsertFeedback(_ context.Context, fb *types.Feedback, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.upsertErr != nil {
		return "", m.upsertErr
	}
	if id == "" {
		id = fb.InterviewID + "/" + fb.UserID
	}
	stored := *fb
	stored.ID = id
	m.records[id] = &stored
	return id, nil
}

func (m *memoryStore) FindFeedback(_ context.Context, interviewID, userID string) (*types.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, fb := range m.records {
		if fb.InterviewID == interviewID && fb.UserID == userID {
			return fb, nil
		}
	}
	return nil, nil
}

type memoryInterviews struct {
	interviews map[string]*types.Interview
	err        error
}

func (m *memoryInterviews) GetInterview(_ context.Context, id string) (*types.Interview, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.interviews[id], nil
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(client llm.Client, store Store, interviews InterviewReader) *Service {
	return NewService(client, store, interviews, Options{
		ScorePolicy: ScorePolicyReject,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:         func() time.Time { return fixedNow },
	})
}

func sampleRequest() types.CreateFeedbackRequest {
	return types.CreateFeedbackRequest{
		InterviewID: "int-1",
		UserID:      "user-1",
		Transcript: []types.TranscriptTurn{
			{Role: "interviewer", Content: "Tell me about yourself"},
			{Role: "candidate", Content: "I build backend systems"},
		},
	}
}

func TestCreateFeedback_Success(t *testing.T) {
	var gotPrompt string
	var gotTier llm.ModelTier
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotPrompt, gotTier = prompt, tier
			return "```json\n" + validPayload + "\n```", nil
		},
	}
	store := newMemoryStore()
	svc := newTestService(client, store, &memoryInterviews{})

	result := svc.CreateFeedback(context.Background(), sampleRequest())

	require.True(t, result.Success)
	assert.NotEmpty(t, result.FeedbackID)
	assert.Equal(t, llm.TierLite, gotTier)
	assert.Contains(t, gotPrompt, "- interviewer: Tell me about yourself\n- candidate: I build backend systems\n")

	stored := store.records[result.FeedbackID]
	require.NotNil(t, stored)
	assert.Equal(t, "int-1", stored.InterviewID)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, float64(85), stored.TotalScore)
	assert.Equal(t, fixedNow, stored.CreatedAt)
}

func TestCreateFeedback_UnparseableOutputStoresNothing(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "not json at all", nil
		},
	}
	store := newMemoryStore()
	svc := newTestService(client, store, &memoryInterviews{})

	result := svc.CreateFeedback(context.Background(), sampleRequest())

	assert.False(t, result.Success)
	assert.Empty(t, result.FeedbackID)
	assert.Zero(t, store.upserts)
	assert.Empty(t, store.records)
}

func TestCreateFeedback_ModelFailure(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "", &llm.APIError{Provider: "gemini", Message: "quota exceeded"}
		},
	}
	store := newMemoryStore()
	svc := newTestService(client, store, &memoryInterviews{})

	result := svc.CreateFeedback(context.Background(), sampleRequest())

	assert.False(t, result.Success)
	assert.Zero(t, store.upserts)

	_, err := svc.createFeedback(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, types.ErrModelUnavailable)
}

func TestCreateFeedback_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.upsertErr = errors.New("connection refused")
	svc := newTestService(&MockLLMClient{}, store, &memoryInterviews{})

	result := svc.CreateFeedback(context.Background(), sampleRequest())
	assert.False(t, result.Success)

	_, err := svc.createFeedback(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
}

func TestCreateFeedback_InvalidRequest(t *testing.T) {
	called := false
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			called = true
			return validPayload, nil
		},
	}
	svc := newTestService(client, newMemoryStore(), &memoryInterviews{})

	req := sampleRequest()
	req.InterviewID = ""
	result := svc.CreateFeedback(context.Background(), req)

	assert.False(t, result.Success)
	assert.False(t, called)
}

func TestCreateFeedback_TurnWithoutRole(t *testing.T) {
	var gotPrompt string
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			gotPrompt = prompt
			return validPayload, nil
		},
	}
	store := newMemoryStore()
	svc := newTestService(client, store, &memoryInterviews{})

	req := sampleRequest()
	req.Transcript = []types.TranscriptTurn{{Content: "orphan"}}
	result := svc.CreateFeedback(context.Background(), req)

	require.True(t, result.Success)
	assert.Contains(t, gotPrompt, "- : orphan\n")
	assert.Len(t, store.records, 1)
}

func TestCreateFeedback_ExplicitIDOverwrites(t *testing.T) {
	responses := []string{
		strings.Replace(validPayload, `"totalScore": 85`, `"totalScore": 60`, 1),
		strings.Replace(validPayload, `"totalScore": 85`, `"totalScore": 90`, 1),
	}
	call := 0
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			resp := responses[call]
			call++
			return resp, nil
		},
	}
	store := newMemoryStore()
	svc := newTestService(client, store, &memoryInterviews{})

	req := sampleRequest()
	req.FeedbackID = "fb-42"

	first := svc.CreateFeedback(context.Background(), req)
	second := svc.CreateFeedback(context.Background(), req)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, "fb-42", first.FeedbackID)
	assert.Equal(t, "fb-42", second.FeedbackID)
	require.Len(t, store.records, 1)
	assert.Equal(t, float64(90), store.records["fb-42"].TotalScore)
}

func TestCreateFeedback_PairWithoutIDReusesIdentity(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(&MockLLMClient{}, store, &memoryInterviews{})

	first := svc.CreateFeedback(context.Background(), sampleRequest())
	second := svc.CreateFeedback(context.Background(), sampleRequest())

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, first.FeedbackID, second.FeedbackID)
	assert.Len(t, store.records, 1)
}

func TestCreateFeedback_StoreCallHasDeadline(t *testing.T) {
	var hadDeadline bool
	store := &deadlineStore{memoryStore: newMemoryStore(), seen: &hadDeadline}
	svc := NewService(&MockLLMClient{}, store, &memoryInterviews{}, Options{
		StoreTimeout: 2 * time.Second,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	result := svc.CreateFeedback(context.Background(), sampleRequest())

	require.True(t, result.Success)
	assert.True(t, hadDeadline)
}

type deadlineStore struct {
	*memoryStore
	seen *bool
}

func (d *deadlineStore) UpsertFeedback(ctx context.Context, fb *types.Feedback, id string) (string, error) {
	_, *d.seen = ctx.Deadline()
	return d.memoryStore.UpsertFeedback(ctx, fb, id)
}

func TestGetFeedbackByInterviewID(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(&MockLLMClient{}, store, &memoryInterviews{})

	fb, err := svc.GetFeedbackByInterviewID(context.Background(), "int-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, fb)

	require.True(t, svc.CreateFeedback(context.Background(), sampleRequest()).Success)

	fb, err = svc.GetFeedbackByInterviewID(context.Background(), "int-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, float64(85), fb.TotalScore)

	fb, err = svc.GetFeedbackByInterviewID(context.Background(), "int-1", "someone-else")
	require.NoError(t, err)
	assert.Nil(t, fb)
}

func TestGetFeedbackByInterviewID_StoreFailurePropagates(t *testing.T) {
	store := newMemoryStore()
	store.findErr = errors.New("timeout")
	svc := newTestService(&MockLLMClient{}, store, &memoryInterviews{})

	fb, err := svc.GetFeedbackByInterviewID(context.Background(), "int-1", "user-1")
	assert.Nil(t, fb)
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
}

func TestGetFeedbackView(t *testing.T) {
	interviews := &memoryInterviews{interviews: map[string]*types.Interview{
		"int-1": {ID: "int-1", Role: "Backend Engineer", UserID: "user-1", Finalized: true},
	}}

	t.Run("missing interview", func(t *testing.T) {
		svc := newTestService(&MockLLMClient{}, newMemoryStore(), interviews)
		view, err := svc.GetFeedbackView(context.Background(), "nope", "user-1")
		require.NoError(t, err)
		assert.Nil(t, view)
	})

	t.Run("placeholder when no feedback", func(t *testing.T) {
		svc := newTestService(&MockLLMClient{}, newMemoryStore(), interviews)
		view, err := svc.GetFeedbackView(context.Background(), "int-1", "user-1")
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.True(t, view.IsPlaceholder())
		assert.Equal(t, "Backend Engineer", view.Interview.Role)
		assert.Equal(t, float64(78), view.Feedback.TotalScore)
		assert.Equal(t, "int-1", view.Feedback.InterviewID)
	})

	t.Run("real feedback", func(t *testing.T) {
		store := newMemoryStore()
		svc := newTestService(&MockLLMClient{}, store, interviews)
		require.True(t, svc.CreateFeedback(context.Background(), sampleRequest()).Success)

		view, err := svc.GetFeedbackView(context.Background(), "int-1", "user-1")
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.False(t, view.IsPlaceholder())
		assert.Equal(t, types.FeedbackSourceReal, view.Source)
		assert.Equal(t, float64(85), view.Feedback.TotalScore)
	})

	t.Run("interview lookup failure", func(t *testing.T) {
		svc := newTestService(&MockLLMClient{}, newMemoryStore(), &memoryInterviews{err: errors.New("down")})
		view, err := svc.GetFeedbackView(context.Background(), "int-1", "user-1")
		assert.Nil(t, view)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	})

	t.Run("feedback lookup failure is not a placeholder", func(t *testing.T) {
		store := newMemoryStore()
		store.findErr = errors.New("down")
		svc := newTestService(&MockLLMClient{}, store, interviews)
		view, err := svc.GetFeedbackView(context.Background(), "int-1", "user-1")
		assert.Nil(t, view)
		assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	})
}

func TestPlaceholder_Shape(t *testing.T) {
	fb := Placeholder("int-9", "user-9", fixedNow)

	assert.Equal(t, "int-9", fb.InterviewID)
	assert.Equal(t, "user-9", fb.UserID)
	assert.Empty(t, fb.ID)
	assert.Equal(t, fixedNow, fb.CreatedAt)
	assert.Len(t, fb.CategoryScores, 5)
	assert.Len(t, fb.Strengths, 5)
	assert.Len(t, fb.AreasForImprovement, 5)
	assert.NotEmpty(t, fb.FinalAssessment)

	other := Placeholder("int-9", "user-9", fixedNow)
	other.Strengths[0] = "changed"
	assert.NotEqual(t, "changed", fb.Strengths[0])
}
