package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

// generateBody is the POST /vapi/generate payload sent by the voice agent. The agent
// sends amount as a number or a numeric string and techstack as a string or a list.
type generateBody struct {
	Type      string       `json:"type"`
	Role      string       `json:"role"`
	Level     string       `json:"level"`
	Techstack stringOrList `json:"techstack"`
	Amount    flexInt      `json:"amount"`
	UserID    string       `json:"userid"`
}

func (b generateBody) request() types.GenerateQuestionsRequest {
	return types.GenerateQuestionsRequest{
		Role:      strings.TrimSpace(b.Role),
		Type:      strings.TrimSpace(b.Type),
		Level:     strings.TrimSpace(b.Level),
		Techstack: string(b.Techstack),
		Amount:    int(b.Amount),
		UserID:    strings.TrimSpace(b.UserID),
	}
}

// flexInt accepts 5 or "5".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("amount must be an integer: %w", err)
	}
	*f = flexInt(n)
	return nil
}

// stringOrList accepts "go, react" or ["go", "react"] and keeps the comma-separated form.
type stringOrList string

func (s *stringOrList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*s = stringOrList(strings.Join(items, ","))
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = stringOrList(str)
	return nil
}

func (s *Server) handleGenerateLiveness(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// handleGenerate creates a finalized interview from the agent-collected job parameters.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateBody
	if err := decodeJSON(r, &body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	interview, err := s.interviews.GenerateQuestions(r.Context(), body.request())
	if err != nil {
		s.failure(w, r, "generate questions", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":     true,
		"interviewId": interview.ID,
	})
}
