// Package feedback turns interview transcripts into stored, structured feedback
// and serves it back with a placeholder fallback.
package feedback

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed feedback.schema.json
var schemaJSON []byte

var feedbackSchema = mustLoadSchema(schemaJSON)

func mustLoadSchema(data []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded feedback schema: %v", err))
	}
	return schema
}

// Parser converts raw model text into an Assessment.
type Parser struct {
	policy   ScorePolicy
	validate *validator.Validate
	logger   *slog.Logger
}

// NewParser creates a parser enforcing the given score policy.
func NewParser(policy ScorePolicy, logger *slog.Logger) *Parser {
	if policy == "" {
		policy = DefaultScorePolicy
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		policy:   policy,
		validate: validator.New(),
		logger:   logger,
	}
}

// Parse returns the assessment and true, or nil and false when the text is not a usable
// feedback payload. Failures are logged with the raw text; Parse never panics on bad input.
func (p *Parser) Parse(raw string) (*types.Assessment, bool) {
	assessment, err := p.Check(raw)
	if err != nil {
		p.logger.Warn("model returned unusable feedback", "error", err, "raw", raw)
		return nil, false
	}
	return assessment, true
}

// Check is Parse with the failure reason instead of logging.
func (p *Parser) Check(raw string) (*types.Assessment, error) {
	cleaned, err := singleJSONValue(raw)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(cleaned, &doc); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	result, err := feedbackSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema check failed: %w", err)
	}
	if !result.Valid() {
		shapeErr := &ShapeError{}
		for _, desc := range result.Errors() {
			shapeErr.Fields = append(shapeErr.Fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, shapeErr
	}

	var payload struct {
		TotalScore          float64         `json:"totalScore"`
		CategoryScores      json.RawMessage `json:"categoryScores"`
		Strengths           []string        `json:"strengths"`
		AreasForImprovement []string        `json:"areasForImprovement"`
		FinalAssessment     string          `json:"finalAssessment"`
	}
	if err := json.Unmarshal(cleaned, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}

	categories, err := decodeCategoryScores(payload.CategoryScores)
	if err != nil {
		return nil, err
	}

	assessment := &types.Assessment{
		TotalScore:          payload.TotalScore,
		CategoryScores:      categories,
		Strengths:           payload.Strengths,
		AreasForImprovement: payload.AreasForImprovement,
		FinalAssessment:     payload.FinalAssessment,
	}
	if err := p.policy.apply(p.validate, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// singleJSONValue strips code fences and any leading prose, then requires exactly one
// JSON value with nothing but whitespace after it.
func singleJSONValue(raw string) (json.RawMessage, error) {
	text := llm.StripCodeFence(strings.TrimSpace(raw))
	if i := strings.IndexAny(text, "{["); i > 0 {
		text = text[i:]
	}

	dec := json.NewDecoder(strings.NewReader(text))
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("malformed JSON: unexpected content after value")
	}
	return value, nil
}
