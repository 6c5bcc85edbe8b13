package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/interview-coach/internal/server/middleware"
	"github.com/jonathan/interview-coach/internal/types"
)

const maxBodyBytes = 1 << 20

// createFeedbackBody is the POST /interviews/{id}/feedback payload.
type createFeedbackBody struct {
	Transcript []types.TranscriptTurn `json:"transcript"`
	FeedbackID string                 `json:"feedbackId,omitempty"`
}

// handleCreateFeedback scores a transcript for the caller. Failures never reach the caller
// beyond {success:false}.
func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body createFeedbackBody
	if err := decodeJSON(r, &body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.feedback.CreateFeedback(r.Context(), types.CreateFeedbackRequest{
		InterviewID: chi.URLParam(r, "id"),
		UserID:      userID,
		Transcript:  body.Transcript,
		FeedbackID:  body.FeedbackID,
	})
	if !result.Success {
		s.jsonResponse(w, http.StatusBadGateway, result)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetFeedback returns the feedback view for the caller's interview.
func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	view, err := s.feedback.GetFeedbackView(r.Context(), id, userID)
	if err != nil {
		s.failure(w, r, "get feedback", err)
		return
	}
	if view == nil {
		s.failure(w, r, "get feedback", &ErrNotFound{Resource: "interview", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := s.interviews.GetInterviewByID(r.Context(), id)
	if err != nil {
		s.failure(w, r, "get interview", err)
		return
	}
	if interview == nil {
		s.failure(w, r, "get interview", &ErrNotFound{Resource: "interview", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, interview)
}

func (s *Server) handleListMyInterviews(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	interviews, err := s.interviews.GetInterviewsByUserID(r.Context(), userID)
	if err != nil {
		s.failure(w, r, "list interviews", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"interviews": nonNil(interviews),
		"count":      len(interviews),
	})
}

func (s *Server) handleLatestInterviews(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		s.failure(w, r, "latest interviews", err)
		return
	}

	interviews, err := s.interviews.GetLatestInterviews(r.Context(), userID, limit)
	if err != nil {
		s.failure(w, r, "latest interviews", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"interviews": nonNil(interviews),
		"count":      len(interviews),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		s.failure(w, r, "dashboard", err)
		return
	}

	dashboard, err := s.interviews.Dashboard(r.Context(), userID, limit)
	if err != nil {
		s.failure(w, r, "dashboard", err)
		return
	}
	dashboard.UserInterviews = nonNil(dashboard.UserInterviews)
	dashboard.LatestInterviews = nonNil(dashboard.LatestInterviews)
	s.jsonResponse(w, http.StatusOK, dashboard)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// parseLimit reads the optional ?limit= query parameter. Zero means the service default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"}
	}
	return limit, nil
}

func nonNil(interviews []types.Interview) []types.Interview {
	if interviews == nil {
		return []types.Interview{}
	}
	return interviews
}
