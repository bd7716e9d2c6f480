package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resumatch-backend/internal/llm"
	"resumatch-backend/internal/shared/metrics"
	"resumatch-backend/internal/shared/telemetry"
	"resumatch-backend/internal/usage"
)

// Service contains business logic for analyses. Analyze is synchronous:
// the caller gets either a fully persisted record or an error, never a
// pending state.
type Service struct {
	Repo  AnalysesRepo
	Usage *usage.Service
	LLM   llm.Client
	Model string
}

// Analyze runs one scoring pass over a resume/job-description pair and
// persists the result under userID. Steps run in a fixed order; the first
// failure aborts the run and nothing is stored:
//
//  1. identity and input validation
//  2. quota check
//  3. backend call (single attempt, no retry)
//  4. output normalization
//  5. persist, then consume quota
func (s *Service) Analyze(ctx context.Context, userID, resumeText, jobDescriptionText string) (Analysis, error) {
	if userID == "" {
		return Analysis{}, ErrUnauthorized
	}
	if err := ValidateInput(resumeText, jobDescriptionText); err != nil {
		return Analysis{}, err
	}

	if s.Usage != nil {
		ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
		if err != nil {
			return Analysis{}, err
		}
		if !ok {
			return Analysis{}, usage.ErrLimitReached
		}
	}

	metrics.IncAnalysisRequested()
	started := time.Now()

	raw, err := s.LLM.AnalyzeResume(ctx, llm.AnalyzeInput{
		ResumeText:     resumeText,
		JobDescription: jobDescriptionText,
	})
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.backend_failed", map[string]any{
			"user_id": userID,
			"model":   s.Model,
			"error":   err.Error(),
		})
		return Analysis{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	report, err := NormalizeReport(raw)
	if err != nil {
		metrics.IncAnalysisFailed()
		var nerr *NormalizeError
		fields := map[string]any{
			"user_id": userID,
			"model":   s.Model,
		}
		if errors.As(err, &nerr) {
			fields["kind"] = nerr.Kind
			fields["field"] = nerr.Field
			fields["raw_bytes"] = len(nerr.Raw)
		}
		telemetry.Error("analysis.normalize_failed", fields)
		return Analysis{}, err
	}

	stored, err := s.Repo.Insert(ctx, Analysis{
		UserID:             userID,
		ResumeText:         resumeText,
		JobDescriptionText: jobDescriptionText,
		Report:             report,
	})
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.persist_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return Analysis{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil && !errors.Is(err, usage.ErrLimitReached) {
			// The record is already saved; a quota bookkeeping failure
			// is logged but not surfaced.
			telemetry.Warn("analysis.quota_consume_failed", map[string]any{
				"user_id":     userID,
				"analysis_id": stored.ID,
				"error":       err.Error(),
			})
		}
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("analysis.completed", map[string]any{
		"user_id":     userID,
		"analysis_id": stored.ID,
		"ats_score":   stored.ATSScore,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return stored, nil
}

// Get fetches a single analysis owned by userID.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if userID == "" {
		return Analysis{}, ErrUnauthorized
	}
	if analysisID == "" {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// List returns the user's analyses newest-first. A non-positive limit
// selects the default page size.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}
