package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/database"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
)

// ComplianceStore implements the engine's Store over the pgx repositories.
// One run maps onto one database transaction; the dry-run variant executes
// every statement and then rolls the transaction back.
type ComplianceStore struct {
	db    *database.DB
	modes *ModeRepository
	hires *HireRepository
	runs  *RunRepository
}

// NewComplianceStore creates a ComplianceStore.
func NewComplianceStore(db *database.DB, modes *ModeRepository, hires *HireRepository, runs *RunRepository) *ComplianceStore {
	return &ComplianceStore{db: db, modes: modes, hires: hires, runs: runs}
}

// GetRatioRule resolves a compliance mode by name.
func (s *ComplianceStore) GetRatioRule(ctx context.Context, modeName string) (*engine.RatioRule, error) {
	return s.modes.GetRatioRule(ctx, modeName)
}

// InRunTransaction runs fn inside one transaction covering the whole run.
func (s *ComplianceStore) InRunTransaction(ctx context.Context, dryRun bool, fn func(tx engine.RunTx) error) error {
	wrapped := func(tx pgx.Tx) error {
		return fn(&runTx{tx: tx, store: s})
	}
	if dryRun {
		return s.db.InTransactionRollback(ctx, wrapped)
	}
	return s.db.InTransaction(ctx, wrapped)
}

// runTx is the transaction-scoped view handed to the orchestrator.
type runTx struct {
	tx    pgx.Tx
	store *ComplianceStore
}

func (t *runTx) ListContractors(ctx context.Context) ([]*engine.Contractor, error) {
	return t.store.hires.ListContractors(ctx, t.tx)
}

func (t *runTx) ListHires(ctx context.Context, contractorID string, since time.Time) ([]*engine.HireEvent, error) {
	return t.store.hires.ListHires(ctx, t.tx, contractorID, since)
}

func (t *runTx) NextSequence(ctx context.Context, modeID string, cutover time.Time) (int, error) {
	return t.store.runs.NextSequence(ctx, t.tx, modeID, cutover)
}

func (t *runTx) FindPriorRun(ctx context.Context, modeID string, cutover time.Time) (*engine.Run, error) {
	return t.store.runs.FindPriorRun(ctx, t.tx, modeID, cutover)
}

func (t *runTx) GetSummary(ctx context.Context, runID, contractorID string) (*engine.SummaryEntry, error) {
	return t.store.runs.GetSummary(ctx, t.tx, runID, contractorID)
}

func (t *runTx) CreateRun(ctx context.Context, run *engine.Run) error {
	return t.store.runs.CreateRun(ctx, t.tx, run)
}

func (t *runTx) InsertLedgerEntry(ctx context.Context, e *engine.LedgerEntry) error {
	return t.store.runs.InsertLedgerEntry(ctx, t.tx, e)
}

func (t *runTx) InsertSummaryEntry(ctx context.Context, e *engine.SummaryEntry) error {
	return t.store.runs.InsertSummaryEntry(ctx, t.tx, e)
}
