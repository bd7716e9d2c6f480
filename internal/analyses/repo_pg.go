package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements AnalysesRepo using Postgres. Keyword and suggestion
// lists are stored as JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

// Insert stores an analysis. The ID is generated here; created_at comes
// from the database so list ordering follows a single clock.
func (r *PGRepo) Insert(ctx context.Context, analysis Analysis) (Analysis, error) {
	const query = `
INSERT INTO analyses (
    id,
    user_id,
    resume_text,
    job_description_text,
    ats_score,
    missing_keywords,
    suggestions,
    strengths
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at`

	missingKeywords, err := json.Marshal(analysis.MissingKeywords)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal missing keywords: %w", err)
	}
	suggestions, err := json.Marshal(analysis.Suggestions)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal suggestions: %w", err)
	}
	strengths, err := json.Marshal(analysis.Strengths)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal strengths: %w", err)
	}

	analysis.ID = uuid.NewString()
	err = r.DB.QueryRowContext(
		ctx,
		query,
		analysis.ID,
		analysis.UserID,
		analysis.ResumeText,
		analysis.JobDescriptionText,
		analysis.ATSScore,
		missingKeywords,
		suggestions,
		strengths,
	).Scan(&analysis.CreatedAt)
	if err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// GetByID fetches an analysis by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userId, analysisID string) (Analysis, error) {
	const query = `
SELECT id, user_id, resume_text, job_description_text, ats_score, missing_keywords, suggestions, strengths, created_at
FROM analyses
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userId, analysisID)
	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// ListByUser lists analyses ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userId string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	const query = `
SELECT id, user_id, resume_text, job_description_text, ats_score, missing_keywords, suggestions, strengths, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var missingKeywords, suggestions, strengths []byte
	err := row.Scan(
		&analysis.ID,
		&analysis.UserID,
		&analysis.ResumeText,
		&analysis.JobDescriptionText,
		&analysis.ATSScore,
		&missingKeywords,
		&suggestions,
		&strengths,
		&analysis.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	if err := json.Unmarshal(missingKeywords, &analysis.MissingKeywords); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal missing keywords: %w", err)
	}
	if err := json.Unmarshal(suggestions, &analysis.Suggestions); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal suggestions: %w", err)
	}
	if err := json.Unmarshal(strengths, &analysis.Strengths); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal strengths: %w", err)
	}
	return analysis, nil
}

var _ AnalysesRepo = (*PGRepo)(nil)
