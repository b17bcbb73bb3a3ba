package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/errors"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/logger"
)

// EventPublisher receives a notification when a run commits. Implementations
// must never fail the run; errors are theirs to log.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, result *RunResult)
}

// RunResult is the observable outcome of a run: the run record plus every
// ledger and summary row it produced. Identical for dry and real runs; only
// persistence differs.
type RunResult struct {
	Run       *Run
	Ledger    []*LedgerEntry
	Summaries []*SummaryEntry
	DryRun    bool
}

// Orchestrator executes compliance runs. Each run resumes from the state the
// prior run left per contractor, replays newly observed hires in a fixed
// order, and records the full ledger and per-contractor summaries in one
// atomic transaction.
type Orchestrator struct {
	store     Store
	publisher EventPublisher // optional
	log       *logger.Logger
}

// NewOrchestrator creates an orchestrator. publisher may be nil.
func NewOrchestrator(store Store, publisher EventPublisher, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// Execute performs one compliance run for the named mode as of cutover.
// With dryRun set, every computation and write runs identically but the
// transaction is rolled back, so no rows persist.
//
// On any failure after the transaction opens, the whole run rolls back: no
// partial ledger is ever observable.
func (o *Orchestrator) Execute(ctx context.Context, modeName string, cutover time.Time, dryRun bool) (*RunResult, error) {
	rule, err := o.store.GetRatioRule(ctx, modeName)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil, errors.Configuration(fmt.Sprintf("unknown compliance mode '%s'", modeName))
		}
		return nil, err
	}
	if rule.AllowedDirect < 1 {
		return nil, errors.Configuration(fmt.Sprintf("mode '%s' has invalid allowed-direct value %d", modeName, rule.AllowedDirect))
	}

	result := &RunResult{DryRun: dryRun}

	err = o.store.InRunTransaction(ctx, dryRun, func(tx RunTx) error {
		seq, err := tx.NextSequence(ctx, rule.ID, cutover)
		if err != nil {
			return err
		}

		run := &Run{
			ModeID:      rule.ID,
			ModeName:    rule.Name,
			CutoverDate: cutover,
			Sequence:    seq,
		}
		if err := tx.CreateRun(ctx, run); err != nil {
			return err
		}
		result.Run = run

		prior, err := tx.FindPriorRun(ctx, rule.ID, cutover)
		if err != nil {
			return err
		}

		contractors, err := selectContractors(ctx, tx)
		if err != nil {
			return err
		}

		for _, c := range contractors {
			if err := o.evaluateContractor(ctx, tx, run, prior, c, rule.AllowedDirect, cutover, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		o.log.Error().Err(err).
			Str("mode", modeName).
			Time("cutover_date", cutover).
			Bool("dry_run", dryRun).
			Msg("Compliance run failed")
		return nil, err
	}

	o.log.Info().
		Str("run_id", result.Run.ID).
		Str("mode", modeName).
		Time("cutover_date", cutover).
		Int("sequence", result.Run.Sequence).
		Bool("dry_run", dryRun).
		Int("contractor_count", len(result.Summaries)).
		Int("hire_count", len(result.Ledger)).
		Msg("Compliance run completed")

	if o.publisher != nil && !dryRun {
		o.publisher.PublishRunCompleted(ctx, result)
	}

	return result, nil
}

// evaluateContractor seeds the contractor's state, replays its ordered hires
// through the transition function writing one ledger row per hire, then
// writes exactly one summary row with the final state. Contractors with no
// in-scope hires still get a summary carrying the seeded state.
func (o *Orchestrator) evaluateContractor(
	ctx context.Context,
	tx RunTx,
	run *Run,
	prior *Run,
	c *Contractor,
	allowedDirect int,
	cutover time.Time,
	result *RunResult,
) error {
	state, err := seedState(ctx, tx, prior, c.ID, allowedDirect)
	if err != nil {
		return err
	}

	hires, err := selectHires(ctx, tx, c.ID, cutover)
	if err != nil {
		return err
	}

	for _, hire := range hires {
		state = Apply(state, hire.Class, allowedDirect)

		entry := &LedgerEntry{
			RunID:          run.ID,
			ContractorID:   c.ID,
			ContractorName: hire.ContractorName,
			EmployerName:   hire.EmployerName,
			MemberName:     hire.MemberName,
			MemberID:       hire.MemberID,
			Class:          hire.Class,
			StartDate:      hire.StartDate,
			ReviewedAt:     hire.ReviewedAt,

			Status:           state.Status,
			DirectCount:      state.DirectCount,
			DispatchNeeded:   state.DispatchNeeded,
			NextHireDispatch: state.NextHireDispatch,
		}
		if err := tx.InsertLedgerEntry(ctx, entry); err != nil {
			return err
		}
		result.Ledger = append(result.Ledger, entry)
	}

	summary := &SummaryEntry{
		RunID:          run.ID,
		ContractorID:   c.ID,
		ContractorName: c.Name,

		Status:           state.Status,
		DirectCount:      state.DirectCount,
		DispatchNeeded:   state.DispatchNeeded,
		NextHireDispatch: state.NextHireDispatch,
	}
	if err := tx.InsertSummaryEntry(ctx, summary); err != nil {
		return err
	}
	result.Summaries = append(result.Summaries, summary)

	return nil
}
