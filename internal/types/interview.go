package types

import "time"

// Interview is the metadata of one generated mock interview.
type Interview struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Type       string    `json:"type"`
	Level      string    `json:"level"`
	Techstack  []string  `json:"techstack"`
	Questions  []string  `json:"questions"`
	UserID     string    `json:"userId"`
	Finalized  bool      `json:"finalized"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Dashboard groups the caller's own interviews with recent finalized interviews of others.
type Dashboard struct {
	UserInterviews   []Interview `json:"userInterviews"`
	LatestInterviews []Interview `json:"latestInterviews"`
}
