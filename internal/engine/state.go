// Package engine implements the compliance run engine: the per-hire state
// transition function, the per-contractor state seeder, the hire selector and
// the run orchestrator that ties them together inside one transaction.
package engine

// State is a contractor's compliance standing at a point in time.
// NextHireDispatch is always derived from the other fields, never set
// independently.
type State struct {
	Status           ComplianceStatus
	DirectCount      int
	DispatchNeeded   int
	NextHireDispatch bool
}

// NewState returns the fresh state for a contractor with no history:
// compliant with zero counters.
func NewState() State {
	return State{
		Status:           StatusCompliant,
		DirectCount:      0,
		DispatchNeeded:   0,
		NextHireDispatch: false,
	}
}

// Apply advances the state by one hire under the given ratio threshold.
// Pure and total: no I/O, no error cases.
//
// Dispatch hires either clear the debt entirely (compliant, or exactly one
// dispatch owed) or pay down one unit of a multi-hire debt. Direct hires
// count toward the threshold; the first hire past it flips the contractor to
// noncompliant owing one dispatch, and every further overage adds one more
// owed dispatch.
func Apply(s State, class HireClass, allowedDirect int) State {
	switch class {
	case ClassDispatch:
		if s.Status == StatusCompliant || s.DispatchNeeded <= 1 {
			// Debt cleared: full reset.
			s = State{
				Status:         StatusCompliant,
				DirectCount:    0,
				DispatchNeeded: 0,
			}
		} else {
			// Partial repayment of a multi-hire debt.
			s.DispatchNeeded = clampZero(s.DispatchNeeded - 1)
			s.DirectCount = clampZero(s.DirectCount - 1)
			s.Status = StatusNoncompliant
		}

	default: // direct
		s.DirectCount++
		if s.DirectCount > allowedDirect {
			if s.Status == StatusCompliant {
				s.Status = StatusNoncompliant
				s.DispatchNeeded = 1
			} else {
				s.DispatchNeeded++
			}
		}
	}

	s.NextHireDispatch = deriveNextHireDispatch(s, allowedDirect)
	return s
}

// deriveNextHireDispatch recomputes the derived flag: the contractor's next
// hire must come off the dispatch list iff a dispatch is owed or the direct
// allowance is used up.
func deriveNextHireDispatch(s State, allowedDirect int) bool {
	return s.DispatchNeeded > 0 || s.DirectCount >= allowedDirect
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
