package feedback

import (
	"fmt"
	"strings"
)

// ShapeError reports a model payload that is valid JSON but not a feedback object.
type ShapeError struct {
	Fields []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected feedback shape: %s", strings.Join(e.Fields, "; "))
}

// ScoreRangeError reports a score outside 0..100 under the reject policy.
type ScoreRangeError struct {
	Field string
	Score float64
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("score out of range in %s: %g", e.Field, e.Score)
}
