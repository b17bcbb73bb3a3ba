package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/database"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/errors"
)

// RunRepository persists runs, ledger entries and summary entries.
// All write methods take the run's transaction: a run's rows are only ever
// written together, never piecemeal.
type RunRepository struct {
	db *database.DB
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(db *database.DB) *RunRepository {
	return &RunRepository{db: db}
}

// NextSequence allocates the next sequence number for (modeID, cutover).
// An advisory lock keyed on the pair serializes concurrent runs for the same
// mode and cutover date; runs for other pairs do not contend.
func (r *RunRepository) NextSequence(ctx context.Context, tx pgx.Tx, modeID string, cutover time.Time) (int, error) {
	lockQuery := `SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::date::text, 0))`
	if _, err := tx.Exec(ctx, lockQuery, modeID, cutover); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeTransaction, "failed to acquire run lock")
	}

	query := `
		SELECT COALESCE(MAX(sequence), 0) + 1
		FROM compliance_runs
		WHERE mode_id = $1
		  AND cutover_date = $2
	`

	var seq int
	if err := tx.QueryRow(ctx, query, modeID, cutover).Scan(&seq); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "failed to allocate run sequence")
	}
	return seq, nil
}

// CreateRun inserts the run record and fills its ID and CreatedAt.
func (r *RunRepository) CreateRun(ctx context.Context, tx pgx.Tx, run *engine.Run) error {
	query := `
		INSERT INTO compliance_runs (mode_id, cutover_date, sequence)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, run.ModeID, run.CutoverDate, run.Sequence).
		Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create run")
	}
	return nil
}

// FindPriorRun returns the run for modeID with the latest cutover date
// strictly before cutover; ties break to the highest sequence. Nil when no
// such run exists.
func (r *RunRepository) FindPriorRun(ctx context.Context, tx pgx.Tx, modeID string, cutover time.Time) (*engine.Run, error) {
	query := `
		SELECT r.id, r.mode_id, m.name, r.cutover_date, r.sequence, r.created_at
		FROM compliance_runs r
		JOIN compliance_modes m ON m.id = r.mode_id
		WHERE r.mode_id = $1
		  AND r.cutover_date < $2
		ORDER BY r.cutover_date DESC, r.sequence DESC
		LIMIT 1
	`

	run, err := scanRun(tx.QueryRow(ctx, query, modeID, cutover))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to find prior run")
	}
	return run, nil
}

// GetSummary returns a contractor's summary from a run, or nil when the run
// recorded none for that contractor.
func (r *RunRepository) GetSummary(ctx context.Context, tx pgx.Tx, runID, contractorID string) (*engine.SummaryEntry, error) {
	query := `
		SELECT id, run_id, contractor_id, contractor_name,
		       status, direct_count, dispatch_needed, next_hire_dispatch
		FROM summary_entries
		WHERE run_id = $1
		  AND contractor_id = $2
	`

	s := &engine.SummaryEntry{}
	err := tx.QueryRow(ctx, query, runID, contractorID).Scan(
		&s.ID,
		&s.RunID,
		&s.ContractorID,
		&s.ContractorName,
		&s.Status,
		&s.DirectCount,
		&s.DispatchNeeded,
		&s.NextHireDispatch,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get summary entry")
	}
	return s, nil
}

// InsertLedgerEntry appends one ledger row. Ledger rows are never updated or
// deleted once their run commits.
func (r *RunRepository) InsertLedgerEntry(ctx context.Context, tx pgx.Tx, e *engine.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries
		    (run_id, contractor_id, contractor_name, employer_name,
		     member_name, member_id, classification, start_date, reviewed_at,
		     status, direct_count, dispatch_needed, next_hire_dispatch)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		e.RunID,
		e.ContractorID,
		e.ContractorName,
		e.EmployerName,
		e.MemberName,
		e.MemberID,
		e.Class.String(),
		e.StartDate,
		e.ReviewedAt,
		e.Status,
		e.DirectCount,
		e.DispatchNeeded,
		e.NextHireDispatch,
	).Scan(&e.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to insert ledger entry")
	}
	return nil
}

// InsertSummaryEntry appends one summary row.
func (r *RunRepository) InsertSummaryEntry(ctx context.Context, tx pgx.Tx, e *engine.SummaryEntry) error {
	query := `
		INSERT INTO summary_entries
		    (run_id, contractor_id, contractor_name,
		     status, direct_count, dispatch_needed, next_hire_dispatch)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		e.RunID,
		e.ContractorID,
		e.ContractorName,
		e.Status,
		e.DirectCount,
		e.DispatchNeeded,
		e.NextHireDispatch,
	).Scan(&e.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to insert summary entry")
	}
	return nil
}

// ── read projections over committed runs ─────────────────────────────────────

// GetRun retrieves a committed run by ID.
func (r *RunRepository) GetRun(ctx context.Context, id string) (*engine.Run, error) {
	query := `
		SELECT r.id, r.mode_id, m.name, r.cutover_date, r.sequence, r.created_at
		FROM compliance_runs r
		JOIN compliance_modes m ON m.id = r.mode_id
		WHERE r.id = $1
	`

	run, err := scanRun(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("run", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get run")
	}
	return run, nil
}

// ListLedger returns a run's full ledger ordered by contractor, then hire
// replay order.
func (r *RunRepository) ListLedger(ctx context.Context, runID string) ([]*engine.LedgerEntry, error) {
	query := `
		SELECT id, run_id, contractor_id, contractor_name, employer_name,
		       member_name, member_id, classification, start_date, reviewed_at,
		       status, direct_count, dispatch_needed, next_hire_dispatch
		FROM ledger_entries
		WHERE run_id = $1
		ORDER BY contractor_name, contractor_id, start_date, reviewed_at, member_id
	`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list ledger entries")
	}
	defer rows.Close()

	entries := make([]*engine.LedgerEntry, 0)
	for rows.Next() {
		e := &engine.LedgerEntry{}
		var classification string
		err := rows.Scan(
			&e.ID,
			&e.RunID,
			&e.ContractorID,
			&e.ContractorName,
			&e.EmployerName,
			&e.MemberName,
			&e.MemberID,
			&classification,
			&e.StartDate,
			&e.ReviewedAt,
			&e.Status,
			&e.DirectCount,
			&e.DispatchNeeded,
			&e.NextHireDispatch,
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan ledger entry")
		}
		e.Class = engine.ParseHireClass(classification)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list ledger entries")
	}

	return entries, nil
}

// ListSummaries returns a run's summaries ordered by contractor name.
func (r *RunRepository) ListSummaries(ctx context.Context, runID string) ([]*engine.SummaryEntry, error) {
	query := `
		SELECT id, run_id, contractor_id, contractor_name,
		       status, direct_count, dispatch_needed, next_hire_dispatch
		FROM summary_entries
		WHERE run_id = $1
		ORDER BY contractor_name, contractor_id
	`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list summary entries")
	}
	defer rows.Close()

	summaries := make([]*engine.SummaryEntry, 0)
	for rows.Next() {
		s := &engine.SummaryEntry{}
		err := rows.Scan(
			&s.ID,
			&s.RunID,
			&s.ContractorID,
			&s.ContractorName,
			&s.Status,
			&s.DirectCount,
			&s.DispatchNeeded,
			&s.NextHireDispatch,
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan summary entry")
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list summary entries")
	}

	return summaries, nil
}

// ── scan helper ──────────────────────────────────────────────────────────────

type runScanner interface {
	Scan(dest ...any) error
}

func scanRun(row runScanner) (*engine.Run, error) {
	run := &engine.Run{}
	err := row.Scan(
		&run.ID,
		&run.ModeID,
		&run.ModeName,
		&run.CutoverDate,
		&run.Sequence,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}
