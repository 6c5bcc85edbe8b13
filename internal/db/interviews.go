package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/interview-coach/internal/types"
)

// -----------------------------------------------------------------------------
// Interview Methods
// -----------------------------------------------------------------------------

const interviewColumns = `id, COALESCE(role, ''), COALESCE(type, ''), COALESCE(level, ''),
	techstack, questions, user_id, COALESCE(finalized, FALSE), COALESCE(cover_image, ''), created_at`

// CreateInterview inserts an interview. Missing ID and CreatedAt are filled in; the stored
// interview's ID is returned.
func (db *DB) CreateInterview(ctx context.Context, interview *types.Interview) (string, error) {
	if interview.ID == "" {
		interview.ID = uuid.New().String()
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}

	techstack, err := marshalList(interview.Techstack)
	if err != nil {
		return "", fmt.Errorf("failed to encode techstack: %w", err)
	}
	questions, err := marshalList(interview.Questions)
	if err != nil {
		return "", fmt.Errorf("failed to encode questions: %w", err)
	}

	var coverImage *string
	if interview.CoverImage != "" {
		coverImage = &interview.CoverImage
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interviews (id, role, type, level, techstack, questions, user_id,
		                         finalized, cover_image, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		interview.ID, interview.Role, interview.Type, interview.Level, techstack, questions,
		interview.UserID, interview.Finalized, coverImage, interview.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create interview: %w", err)
	}
	return interview.ID, nil
}

// GetInterview retrieves an interview by ID, or nil when it does not exist
func (db *DB) GetInterview(ctx context.Context, id string) (*types.Interview, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`,
		id,
	)
	interview, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return interview, nil
}

// ListInterviewsByUser returns the user's interviews, newest first
func (db *DB) ListInterviewsByUser(ctx context.Context, userID string) ([]types.Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+`
		 FROM interviews
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return collectInterviews(rows)
}

// ListLatestInterviews returns finalized interviews of other users, newest first.
// A non-positive limit means DefaultLatestLimit.
func (db *DB) ListLatestInterviews(ctx context.Context, userID string, limit int) ([]types.Interview, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+`
		 FROM interviews
		 WHERE finalized = TRUE AND user_id <> $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest interviews: %w", err)
	}
	return collectInterviews(rows)
}

func collectInterviews(rows pgx.Rows) ([]types.Interview, error) {
	defer rows.Close()

	interviews := []types.Interview{}
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *interview)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interviews: %w", err)
	}
	return interviews, nil
}

func scanInterview(row pgx.Row) (*types.Interview, error) {
	var i types.Interview
	var techstackJSON, questionsJSON []byte
	var createdAt *time.Time

	if err := row.Scan(&i.ID, &i.Role, &i.Type, &i.Level, &techstackJSON, &questionsJSON,
		&i.UserID, &i.Finalized, &i.CoverImage, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if i.Techstack, err = unmarshalList[string](techstackJSON); err != nil {
		return nil, fmt.Errorf("failed to decode techstack: %w", err)
	}
	if i.Questions, err = unmarshalList[string](questionsJSON); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	if createdAt != nil {
		i.CreatedAt = *createdAt
	}
	return &i, nil
}
