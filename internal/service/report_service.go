// Package service exposes read-only projections over committed runs for the
// report/export surfaces. No business logic lives here.
package service

import (
	"context"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/logger"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/repository"
)

// ReportService reads a completed run's ledger and summaries.
type ReportService struct {
	runs *repository.RunRepository
	log  *logger.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(runs *repository.RunRepository, log *logger.Logger) *ReportService {
	return &ReportService{runs: runs, log: log}
}

// GetRun retrieves a committed run by ID.
func (s *ReportService) GetRun(ctx context.Context, runID string) (*engine.Run, error) {
	return s.runs.GetRun(ctx, runID)
}

// GetLedger returns a run's full hire-by-hire ledger, ordered by contractor
// and then replay order. NotFound if the run does not exist.
func (s *ReportService) GetLedger(ctx context.Context, runID string) ([]*engine.LedgerEntry, error) {
	if _, err := s.runs.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.runs.ListLedger(ctx, runID)
}

// GetSummaries returns a run's per-contractor summaries ordered by contractor
// name. NotFound if the run does not exist.
func (s *ReportService) GetSummaries(ctx context.Context, runID string) ([]*engine.SummaryEntry, error) {
	if _, err := s.runs.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.runs.ListSummaries(ctx, runID)
}
