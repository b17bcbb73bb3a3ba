package engine

import "context"

// seedState reconstructs a contractor's starting state for the current run.
// With a prior run and a summary for this contractor, the summary's counters
// are adopted verbatim and the derived flag recomputed; otherwise the fresh
// compliant zero state.
func seedState(ctx context.Context, tx RunTx, priorRun *Run, contractorID string, allowedDirect int) (State, error) {
	if priorRun == nil {
		return NewState(), nil
	}

	summary, err := tx.GetSummary(ctx, priorRun.ID, contractorID)
	if err != nil {
		return State{}, err
	}
	if summary == nil {
		return NewState(), nil
	}

	s := State{
		Status:         summary.Status,
		DirectCount:    summary.DirectCount,
		DispatchNeeded: summary.DispatchNeeded,
	}
	s.NextHireDispatch = deriveNextHireDispatch(s, allowedDirect)
	return s, nil
}
