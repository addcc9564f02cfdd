package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/transcheck/internal/models"
)

// ErrRunNotFound is returned when a run ID is not in the history store
var ErrRunNotFound = errors.New("run not found")

// RunStorage persists harness runs
type RunStorage interface {
	SaveRun(ctx context.Context, run *models.RunRecord) error
	GetRun(ctx context.Context, id string) (*models.RunRecord, error)
	// ListRuns returns runs newest first; limit <= 0 returns all
	ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error)
	DeleteRun(ctx context.Context, id string) error
	// PruneRuns keeps the newest keep runs; keep <= 0 keeps everything
	PruneRuns(ctx context.Context, keep int) (int, error)
	Close() error
}
