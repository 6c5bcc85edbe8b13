// Package types provides type definitions for structured data used throughout the interview coach.
package types

import "time"

// CategoryScore is the score and commentary for one assessment category.
type CategoryScore struct {
	Name    string  `json:"name" validate:"required"`
	Score   float64 `json:"score" validate:"gte=0,lte=100"`
	Comment string  `json:"comment"`
}

// Assessment is the model-derived part of a feedback record.
type Assessment struct {
	TotalScore          float64         `json:"totalScore" validate:"gte=0,lte=100"`
	CategoryScores      []CategoryScore `json:"categoryScores" validate:"dive"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
}

// Feedback is the stored scoring record for one (interview, user) pair.
type Feedback struct {
	ID          string `json:"id,omitempty"`
	InterviewID string `json:"interviewId"`
	UserID      string `json:"userId"`
	Assessment
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackSource tells whether a view carries stored feedback or the placeholder.
type FeedbackSource string

const (
	// FeedbackSourceReal marks feedback read from the store
	FeedbackSourceReal FeedbackSource = "real"
	// FeedbackSourcePlaceholder marks the canned record shown before feedback exists
	FeedbackSourcePlaceholder FeedbackSource = "placeholder"
)

// FeedbackView is what the presentation layer renders for an interview's feedback page.
// Feedback is never nil; Source says where it came from.
type FeedbackView struct {
	Interview *Interview     `json:"interview"`
	Feedback  *Feedback      `json:"feedback"`
	Source    FeedbackSource `json:"source"`
}

// IsPlaceholder reports whether the view carries the canned placeholder record.
func (v *FeedbackView) IsPlaceholder() bool {
	return v.Source == FeedbackSourcePlaceholder
}

// CreateFeedbackResult is the boundary result of feedback creation.
type CreateFeedbackResult struct {
	Success    bool   `json:"success"`
	FeedbackID string `json:"feedbackId,omitempty"`
}
