package engine

import (
	"context"
	"time"
)

// Store is the persistence surface the orchestrator drives. The pgx-backed
// implementation lives in the repository package; tests use an in-memory one.
type Store interface {
	// GetRatioRule resolves a compliance mode by name. NotFound if unknown.
	GetRatioRule(ctx context.Context, modeName string) (*RatioRule, error)

	// InRunTransaction runs fn inside one transaction covering the whole run.
	// When dryRun is true the transaction is always rolled back; fn still
	// executes every statement.
	InRunTransaction(ctx context.Context, dryRun bool, fn func(tx RunTx) error) error
}

// RunTx is the transaction-scoped view used while a run executes. Every read
// and write of a run happens through one RunTx, so the run sees and produces
// a consistent snapshot.
type RunTx interface {
	// ListContractors returns every contractor with at least one recorded
	// hire event, regardless of date.
	ListContractors(ctx context.Context) ([]*Contractor, error)

	// ListHires returns a contractor's hire events with start date at or
	// after since.
	ListHires(ctx context.Context, contractorID string, since time.Time) ([]*HireEvent, error)

	// NextSequence allocates the next run sequence number for
	// (modeID, cutover), serialized against concurrent runs for the same pair.
	NextSequence(ctx context.Context, modeID string, cutover time.Time) (int, error)

	// FindPriorRun returns the run for modeID with the latest cutover date
	// strictly before cutover, highest sequence winning ties, or nil.
	FindPriorRun(ctx context.Context, modeID string, cutover time.Time) (*Run, error)

	// GetSummary returns a contractor's summary from a run, or nil.
	GetSummary(ctx context.Context, runID, contractorID string) (*SummaryEntry, error)

	// CreateRun inserts the run record and fills its ID and CreatedAt.
	CreateRun(ctx context.Context, run *Run) error

	// InsertLedgerEntry appends one ledger row and fills its ID.
	InsertLedgerEntry(ctx context.Context, entry *LedgerEntry) error

	// InsertSummaryEntry appends one summary row and fills its ID.
	InsertSummaryEntry(ctx context.Context, entry *SummaryEntry) error
}
