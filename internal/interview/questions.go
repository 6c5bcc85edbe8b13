package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

var errNoQuestions = errors.New("model returned no questions")

// buildQuestionsPrompt constructs the question generation prompt
func buildQuestionsPrompt(req types.GenerateQuestionsRequest) string {
	return prompts.Render("questions.json", "generate-questions", map[string]string{
		"Role":      req.Role,
		"Level":     req.Level,
		"Techstack": strings.Join(SplitTechstack(req.Techstack), ", "),
		"Type":      req.Type,
		"Amount":    strconv.Itoa(req.Amount),
	})
}

// parseQuestions decodes the model's JSON array of questions, dropping blank entries.
func parseQuestions(raw string) ([]string, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var questions []string
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("questions are not a JSON array of strings: %w", err)
	}

	kept := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			kept = append(kept, q)
		}
	}
	if len(kept) == 0 {
		return nil, errNoQuestions
	}
	return kept, nil
}

// SplitTechstack splits a comma-separated tech stack, trimming entries and dropping empties.
func SplitTechstack(techstack string) []string {
	parts := strings.Split(techstack, ",")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			stack = append(stack, part)
		}
	}
	return stack
}
