package types

import "github.com/go-playground/validator/v10"

// CreateFeedbackRequest carries the inputs of feedback creation.
type CreateFeedbackRequest struct {
	InterviewID string           `json:"interviewId" validate:"required"`
	UserID      string           `json:"userId" validate:"required"`
	Transcript  []TranscriptTurn `json:"transcript"`
	// FeedbackID, when set, makes creation overwrite that record instead of creating one.
	FeedbackID string `json:"feedbackId,omitempty"`
}

// GenerateQuestionsRequest carries the job parameters used to generate interview questions.
type GenerateQuestionsRequest struct {
	Role      string `json:"role" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Level     string `json:"level" validate:"required"`
	Techstack string `json:"techstack"`
	Amount    int    `json:"amount" validate:"gte=1,lte=50"`
	UserID    string `json:"userid" validate:"required"`
}

// Validate validates the CreateFeedbackRequest using the validator.
func (r *CreateFeedbackRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GenerateQuestionsRequest using the validator.
func (r *GenerateQuestionsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
