package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/interview-coach/internal/types"
)

// -----------------------------------------------------------------------------
// Feedback Methods
// -----------------------------------------------------------------------------

const insertFeedbackSQL = `
	INSERT INTO feedback (id, interview_id, user_id, total_score, category_scores,
	                      strengths, areas_for_improvement, final_assessment, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT DO NOTHING
	RETURNING id`

const updateFeedbackByIDSQL = `
	UPDATE feedback SET
		interview_id = $2,
		user_id = $3,
		total_score = $4,
		category_scores = $5,
		strengths = $6,
		areas_for_improvement = $7,
		final_assessment = $8,
		created_at = $9
	WHERE id = $1`

const updateFeedbackByPairSQL = `
	UPDATE feedback SET
		total_score = $3,
		category_scores = $4,
		strengths = $5,
		areas_for_improvement = $6,
		final_assessment = $7,
		created_at = $8
	WHERE interview_id = $1 AND user_id = $2
	RETURNING id`

// UpsertFeedback stores fb and returns its identity.
//
// With an explicit id the row with that id is overwritten, or created with that id when absent.
// Without an id the row is created under FeedbackIdentity. Either way, when the pair already has
// a row under another identity that row keeps its identity and receives the new data, so the
// (interview_id, user_id) unique index holds even for concurrent first-time writes.
func (db *DB) UpsertFeedback(ctx context.Context, fb *types.Feedback, id string) (string, error) {
	args, err := feedbackArgs(fb)
	if err != nil {
		return "", err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if id != "" {
		tag, err := tx.Exec(ctx, updateFeedbackByIDSQL, append([]any{id}, args...)...)
		if err != nil {
			return "", fmt.Errorf("failed to update feedback: %w", err)
		}
		if tag.RowsAffected() > 0 {
			if err := tx.Commit(ctx); err != nil {
				return "", fmt.Errorf("failed to commit feedback: %w", err)
			}
			return id, nil
		}
	} else {
		id = FeedbackIdentity(fb.InterviewID, fb.UserID)
	}

	var stored string
	err = tx.QueryRow(ctx, insertFeedbackSQL, append([]any{id}, args...)...).Scan(&stored)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// the pair already has a row
		if err := tx.QueryRow(ctx, updateFeedbackByPairSQL, args...).Scan(&stored); err != nil {
			return "", fmt.Errorf("failed to update feedback for interview %s: %w", fb.InterviewID, err)
		}
	case err != nil:
		return "", fmt.Errorf("failed to insert feedback: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit feedback: %w", err)
	}
	return stored, nil
}

// FindFeedback returns the feedback for an (interview, user) pair, or nil when none exists.
func (db *DB) FindFeedback(ctx context.Context, interviewID, userID string) (*types.Feedback, error) {
	var fb types.Feedback
	var categoriesJSON, strengthsJSON, improvementsJSON []byte
	var createdAt *time.Time

	err := db.pool.QueryRow(ctx,
		`SELECT id, interview_id, user_id, COALESCE(total_score, 0), category_scores,
		        strengths, areas_for_improvement, COALESCE(final_assessment, ''), created_at
		 FROM feedback
		 WHERE interview_id = $1 AND user_id = $2
		 LIMIT 1`,
		interviewID, userID,
	).Scan(&fb.ID, &fb.InterviewID, &fb.UserID, &fb.TotalScore, &categoriesJSON,
		&strengthsJSON, &improvementsJSON, &fb.FinalAssessment, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}

	if fb.CategoryScores, err = unmarshalList[types.CategoryScore](categoriesJSON); err != nil {
		return nil, fmt.Errorf("failed to decode category scores: %w", err)
	}
	if fb.Strengths, err = unmarshalList[string](strengthsJSON); err != nil {
		return nil, fmt.Errorf("failed to decode strengths: %w", err)
	}
	if fb.AreasForImprovement, err = unmarshalList[string](improvementsJSON); err != nil {
		return nil, fmt.Errorf("failed to decode areas for improvement: %w", err)
	}
	if createdAt != nil {
		fb.CreatedAt = *createdAt
	}

	return &fb, nil
}

// feedbackArgs returns the feedback columns after id, in table order.
func feedbackArgs(fb *types.Feedback) ([]any, error) {
	categories, err := marshalList(fb.CategoryScores)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category scores: %w", err)
	}
	strengths, err := marshalList(fb.Strengths)
	if err != nil {
		return nil, fmt.Errorf("failed to encode strengths: %w", err)
	}
	improvements, err := marshalList(fb.AreasForImprovement)
	if err != nil {
		return nil, fmt.Errorf("failed to encode areas for improvement: %w", err)
	}

	createdAt := fb.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return []any{
		fb.InterviewID,
		fb.UserID,
		fb.TotalScore,
		categories,
		strengths,
		improvements,
		fb.FinalAssessment,
		createdAt,
	}, nil
}
