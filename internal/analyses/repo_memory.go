package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of AnalysesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Analysis // userId -> analyses
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Analysis),
	}
}

// Insert stores an analysis, assigning ID and CreatedAt.
func (r *MemoryRepo) Insert(ctx context.Context, analysis Analysis) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	analysis.ID = uuid.NewString()
	analysis.CreatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[analysis.UserID] = append(r.data[analysis.UserID], analysis)
	return analysis, nil
}

// GetByID returns an analysis by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userId, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := r.data[userId]
	for i := range records {
		if records[i].ID == analysisID {
			return records[i], nil
		}
	}
	return Analysis{}, ErrNotFound
}

// ListByUser returns analyses for a user, newest first, honoring limit.
func (r *MemoryRepo) ListByUser(ctx context.Context, userId string, limit int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	r.mu.RLock()
	userRecords := r.data[userId]
	r.mu.RUnlock()

	if len(userRecords) == 0 {
		return []Analysis{}, nil
	}

	// Copy and sort newest-first by CreatedAt, ID breaking ties.
	records := make([]Analysis, len(userRecords))
	copy(records, userRecords)
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

var _ AnalysesRepo = (*MemoryRepo)(nil)
