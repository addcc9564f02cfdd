package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/transcheck/internal/interfaces"
	"github.com/ternarybob/transcheck/internal/models"
)

// RunStorage implements interfaces.RunStorage on Badger
type RunStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRunStorage creates a run history store
func NewRunStorage(db *BadgerDB, logger arbor.ILogger) *RunStorage {
	return &RunStorage{
		db:     db,
		logger: logger,
	}
}

var _ interfaces.RunStorage = (*RunStorage)(nil)

// SaveRun inserts or replaces a run
func (s *RunStorage) SaveRun(ctx context.Context, run *models.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if err := s.db.Store().Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	s.logger.Debug().Str("run_id", run.ID).Bool("passed", run.Passed).Msg("Run saved")
	return nil
}

// GetRun loads one run by ID
func (s *RunStorage) GetRun(ctx context.Context, id string) (*models.RunRecord, error) {
	var run models.RunRecord
	err := s.db.Store().Get(id, &run)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns returns runs newest first; limit <= 0 returns all
func (s *RunStorage) ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []models.RunRecord
	if err := s.db.Store().Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]*models.RunRecord, len(runs))
	for i := range runs {
		out[i] = &runs[i]
	}
	return out, nil
}

// DeleteRun removes a run
func (s *RunStorage) DeleteRun(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.RunRecord{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("%w: %s", interfaces.ErrRunNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// PruneRuns deletes all but the newest keep runs and returns how many were removed
func (s *RunStorage) PruneRuns(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	var old []models.RunRecord
	query := badgerhold.Where("ID").Ne("").SortBy("StartedAt").Reverse().Skip(keep)
	if err := s.db.Store().Find(&old, query); err != nil {
		return 0, fmt.Errorf("failed to find old runs: %w", err)
	}

	for _, run := range old {
		if err := s.db.Store().Delete(run.ID, &models.RunRecord{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			return 0, fmt.Errorf("failed to delete run %s: %w", run.ID, err)
		}
	}

	if len(old) > 0 {
		if err := s.db.Compact(); err != nil {
			s.logger.Warn().Err(err).Msg("Run history compaction failed")
		}
		s.logger.Debug().Int("removed", len(old)).Int("kept", keep).Msg("Pruned run history")
	}

	return len(old), nil
}

// Close closes the underlying database
func (s *RunStorage) Close() error {
	return s.db.Close()
}
