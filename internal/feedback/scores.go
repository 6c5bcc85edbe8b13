package feedback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/interview-coach/internal/types"
)

// ScorePolicy decides what happens to scores outside 0..100 after a successful parse.
type ScorePolicy string

const (
	// ScorePolicyAccept stores scores as the model returned them
	ScorePolicyAccept ScorePolicy = "accept"
	// ScorePolicyClamp clamps every score into 0..100
	ScorePolicyClamp ScorePolicy = "clamp"
	// ScorePolicyReject turns any out-of-range score into a parse failure
	ScorePolicyReject ScorePolicy = "reject"
)

// DefaultScorePolicy is used when no policy is configured.
const DefaultScorePolicy = ScorePolicyReject

const (
	minScore = 0
	maxScore = 100
)

// ParseScorePolicy converts a configuration string into a ScorePolicy.
// An empty string yields DefaultScorePolicy.
func ParseScorePolicy(s string) (ScorePolicy, error) {
	switch p := ScorePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultScorePolicy, nil
	case ScorePolicyAccept, ScorePolicyClamp, ScorePolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown score policy %q (want accept, clamp or reject)", s)
	}
}

// apply enforces the policy on a parsed assessment in place.
func (p ScorePolicy) apply(validate *validator.Validate, a *types.Assessment) error {
	switch p {
	case ScorePolicyAccept:
		return nil
	case ScorePolicyClamp:
		a.TotalScore = clamp(a.TotalScore)
		for i := range a.CategoryScores {
			a.CategoryScores[i].Score = clamp(a.CategoryScores[i].Score)
		}
		return nil
	default:
		err := validate.Struct(a)
		if err == nil {
			return nil
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Assessment.")
			if score, ok := fe.Value().(float64); ok {
				return &ScoreRangeError{Field: field, Score: score}
			}
			return fmt.Errorf("invalid %s: failed %q check", field, fe.Tag())
		}
		return err
	}
}

func clamp(score float64) float64 {
	switch {
	case score < minScore:
		return minScore
	case score > maxScore:
		return maxScore
	default:
		return score
	}
}
