package feedback

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/interview-coach/internal/types"
)

// categoryRank orders the conceptual categories when the model answers with an object.
var categoryRank = map[string]int{
	"communication":        0,
	"communicationskills":  0,
	"technical":            1,
	"technicalknowledge":   1,
	"problemsolving":       2,
	"culturalfit":          3,
	"culturalandrolefit":   3,
	"confidence":           4,
	"confidenceandclarity": 4,
}

// decodeCategoryScores accepts either an ordered array of {name, score, comment}
// or an object keyed by category name whose values are scores or {score, comment}.
func decodeCategoryScores(raw json.RawMessage) ([]types.CategoryScore, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		scores := []types.CategoryScore{}
		if err := json.Unmarshal(raw, &scores); err != nil {
			return nil, fmt.Errorf("categoryScores: %w", err)
		}
		return scores, nil
	}

	var byName map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("categoryScores: %w", err)
	}

	keys := make([]string, 0, len(byName))
	for key := range byName {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := categoryRank[categoryKey(keys[i])]
		rj, jok := categoryRank[categoryKey(keys[j])]
		switch {
		case iok && jok && ri != rj:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	scores := make([]types.CategoryScore, 0, len(keys))
	for _, key := range keys {
		score := types.CategoryScore{Name: humanizeCategory(key)}
		if score.Name == "" {
			return nil, fmt.Errorf("categoryScores: key %q has no category name", key)
		}
		var value float64
		if err := json.Unmarshal(byName[key], &value); err == nil {
			score.Score = value
		} else {
			var detail struct {
				Score   float64 `json:"score"`
				Comment string  `json:"comment"`
			}
			if err := json.Unmarshal(byName[key], &detail); err != nil {
				return nil, fmt.Errorf("categoryScores.%s: %w", key, err)
			}
			score.Score = detail.Score
			score.Comment = detail.Comment
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// categoryKey folds a category name to lowercase letters only.
func categoryKey(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// humanizeCategory turns "problemSolving" or "cultural_fit" into "Problem Solving" / "Cultural Fit".
func humanizeCategory(key string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(key)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	for i, word := range words {
		rs := []rune(word)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
