package engine

import (
	"context"
	"sort"
	"time"
)

// selectContractors returns the contractors to evaluate this run: every
// contractor with any recorded hire event, in a fixed processing order
// (name, then ID) so replays are deterministic.
func selectContractors(ctx context.Context, tx RunTx) ([]*Contractor, error) {
	contractors, err := tx.ListContractors(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(contractors, func(i, j int) bool {
		if contractors[i].Name != contractors[j].Name {
			return contractors[i].Name < contractors[j].Name
		}
		return contractors[i].ID < contractors[j].ID
	})
	return contractors, nil
}

// selectHires returns a contractor's in-scope hires for the run in replay
// order: start date, then review timestamp, then member ID, ascending. The
// ordering is owned here rather than trusted to the store, since the state
// machine's output depends on it.
func selectHires(ctx context.Context, tx RunTx, contractorID string, cutover time.Time) ([]*HireEvent, error) {
	hires, err := tx.ListHires(ctx, contractorID, cutover)
	if err != nil {
		return nil, err
	}

	sort.Slice(hires, func(i, j int) bool {
		a, b := hires[i], hires[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if !a.ReviewedAt.Equal(b.ReviewedAt) {
			return a.ReviewedAt.Before(b.ReviewedAt)
		}
		return a.MemberID < b.MemberID
	})
	return hires, nil
}
