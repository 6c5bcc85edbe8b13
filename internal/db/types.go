package db

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// DefaultLatestLimit is used by ListLatestInterviews when no positive limit is given.
const DefaultLatestLimit = 20

// feedbackNamespace seeds the deterministic feedback identity.
var feedbackNamespace = uuid.MustParse("6f1c2a4e-8d3b-4c57-9a0e-2b7d5f8e1c93")

// FeedbackIdentity returns the identity assigned to the feedback of an (interview, user) pair
// when the caller does not supply one. The same pair always maps to the same identity.
func FeedbackIdentity(interviewID, userID string) string {
	return uuid.NewSHA1(feedbackNamespace, []byte(interviewID+"/"+userID)).String()
}

// marshalList encodes a list for a JSONB column; nil becomes an empty array.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list: %w", err)
	}
	return data, nil
}

// unmarshalList decodes a JSONB list column; NULL or empty yields an empty slice.
func unmarshalList[T any](data []byte) ([]T, error) {
	items := []T{}
	if len(data) == 0 || string(data) == "null" {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
