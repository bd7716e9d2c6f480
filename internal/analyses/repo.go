package analyses

import "context"

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// AnalysesRepo defines persistence operations for analyses. Insert returns
// the stored record with its assigned ID and CreatedAt. Reads are scoped to
// the owning user; a record that exists but belongs to someone else is
// reported as ErrNotFound.
type AnalysesRepo interface {
	Insert(ctx context.Context, analysis Analysis) (Analysis, error)
	GetByID(ctx context.Context, userId, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userId string, limit int) ([]Analysis, error)
}
