package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateFeedbackRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateFeedbackRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: CreateFeedbackRequest{
				InterviewID: "int-1",
				UserID:      "user-1",
				Transcript:  []TranscriptTurn{{Role: "assistant", Content: "Hi"}},
			},
		},
		{
			name: "empty transcript is allowed",
			req:  CreateFeedbackRequest{InterviewID: "int-1", UserID: "user-1"},
		},
		{name: "missing interview", req: CreateFeedbackRequest{UserID: "user-1"}, wantErr: true},
		{name: "missing user", req: CreateFeedbackRequest{InterviewID: "int-1"}, wantErr: true},
		{
			name: "turn without role is allowed",
			req: CreateFeedbackRequest{
				InterviewID: "int-1",
				UserID:      "user-1",
				Transcript:  []TranscriptTurn{{Content: "orphan"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateQuestionsRequest_Validate(t *testing.T) {
	valid := GenerateQuestionsRequest{
		Role:      "Backend Engineer",
		Type:      "technical",
		Level:     "senior",
		Techstack: "Go, PostgreSQL",
		Amount:    5,
		UserID:    "user-1",
	}
	assert.NoError(t, valid.Validate())

	noAmount := valid
	noAmount.Amount = 0
	assert.Error(t, noAmount.Validate())

	tooMany := valid
	tooMany.Amount = 51
	assert.Error(t, tooMany.Validate())

	noRole := valid
	noRole.Role = ""
	assert.Error(t, noRole.Validate())
}
