package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDirectBelowThreshold(t *testing.T) {
	s := Apply(NewState(), ClassDirect, 2)

	assert.Equal(t, StatusCompliant, s.Status)
	assert.Equal(t, 1, s.DirectCount)
	assert.Equal(t, 0, s.DispatchNeeded)
	assert.False(t, s.NextHireDispatch)
}

func TestApplyDirectAtThreshold(t *testing.T) {
	// directCount == allowedDirect: still compliant, but the next hire must
	// come off the dispatch list.
	s := NewState()
	s = Apply(s, ClassDirect, 2)
	s = Apply(s, ClassDirect, 2)

	assert.Equal(t, StatusCompliant, s.Status)
	assert.Equal(t, 2, s.DirectCount)
	assert.Equal(t, 0, s.DispatchNeeded)
	assert.True(t, s.NextHireDispatch)
}

func TestApplyDirectFirstOverage(t *testing.T) {
	// directCount == allowedDirect+1 flips to noncompliant owing exactly one
	// dispatch.
	s := State{Status: StatusCompliant, DirectCount: 2, NextHireDispatch: true}
	s = Apply(s, ClassDirect, 2)

	assert.Equal(t, StatusNoncompliant, s.Status)
	assert.Equal(t, 3, s.DirectCount)
	assert.Equal(t, 1, s.DispatchNeeded)
	assert.True(t, s.NextHireDispatch)
}

func TestApplyDirectRepeatedOverage(t *testing.T) {
	// Each further overage adds one owed dispatch instead of resetting.
	s := State{Status: StatusNoncompliant, DirectCount: 3, DispatchNeeded: 1, NextHireDispatch: true}
	s = Apply(s, ClassDirect, 2)

	assert.Equal(t, StatusNoncompliant, s.Status)
	assert.Equal(t, 4, s.DirectCount)
	assert.Equal(t, 2, s.DispatchNeeded)
	assert.True(t, s.NextHireDispatch)
}

func TestApplyDispatchWhileCompliant(t *testing.T) {
	// A dispatch hire with no debt resets the counters.
	s := State{Status: StatusCompliant, DirectCount: 2, NextHireDispatch: true}
	s = Apply(s, ClassDispatch, 2)

	assert.Equal(t, StatusCompliant, s.Status)
	assert.Equal(t, 0, s.DirectCount)
	assert.Equal(t, 0, s.DispatchNeeded)
	assert.False(t, s.NextHireDispatch)
}

func TestApplyDispatchClearsSingleDebt(t *testing.T) {
	s := State{Status: StatusNoncompliant, DirectCount: 3, DispatchNeeded: 1, NextHireDispatch: true}
	s = Apply(s, ClassDispatch, 2)

	assert.Equal(t, StatusCompliant, s.Status)
	assert.Equal(t, 0, s.DirectCount)
	assert.Equal(t, 0, s.DispatchNeeded)
	assert.False(t, s.NextHireDispatch)
}

func TestApplyDispatchPartialRepayment(t *testing.T) {
	// More than one dispatch owed: pay down one unit, stay noncompliant.
	s := State{Status: StatusNoncompliant, DirectCount: 4, DispatchNeeded: 2, NextHireDispatch: true}
	s = Apply(s, ClassDispatch, 2)

	assert.Equal(t, StatusNoncompliant, s.Status)
	assert.Equal(t, 3, s.DirectCount)
	assert.Equal(t, 1, s.DispatchNeeded)
	assert.True(t, s.NextHireDispatch)
}

func TestApplyDispatchRepaymentClampsAtZero(t *testing.T) {
	// DirectCount never goes negative even if the debt outnumbers the
	// recorded directs.
	s := State{Status: StatusNoncompliant, DirectCount: 0, DispatchNeeded: 3, NextHireDispatch: true}
	s = Apply(s, ClassDispatch, 2)

	assert.Equal(t, StatusNoncompliant, s.Status)
	assert.Equal(t, 0, s.DirectCount)
	assert.Equal(t, 2, s.DispatchNeeded)
	assert.True(t, s.NextHireDispatch)
}

func TestNoncomplianceFlipsExactlyOnce(t *testing.T) {
	// allowedDirect+1 consecutive directs flip compliant→noncompliant exactly
	// once, with dispatchNeeded == 1 at the flip.
	for _, allowed := range []int{1, 2, 3, 5, 10} {
		s := NewState()
		flips := 0
		for i := 0; i < allowed+1; i++ {
			prev := s.Status
			s = Apply(s, ClassDirect, allowed)
			if prev == StatusCompliant && s.Status == StatusNoncompliant {
				flips++
				assert.Equal(t, 1, s.DispatchNeeded, "allowed=%d", allowed)
			}
		}
		assert.Equal(t, 1, flips, "allowed=%d", allowed)
		assert.Equal(t, allowed+1, s.DirectCount, "allowed=%d", allowed)
	}
}

func TestScenarioThreeDirectsThenRepayment(t *testing.T) {
	// allowedDirect=2 walk: D, D, D, D, then two dispatches back to clean.
	s := NewState()

	s = Apply(s, ClassDirect, 2)
	require.Equal(t, State{StatusCompliant, 1, 0, false}, s)

	s = Apply(s, ClassDirect, 2)
	require.Equal(t, State{StatusCompliant, 2, 0, true}, s)

	s = Apply(s, ClassDirect, 2)
	require.Equal(t, State{StatusNoncompliant, 3, 1, true}, s)

	s = Apply(s, ClassDirect, 2)
	require.Equal(t, State{StatusNoncompliant, 4, 2, true}, s)

	s = Apply(s, ClassDispatch, 2)
	require.Equal(t, State{StatusNoncompliant, 3, 1, true}, s)

	s = Apply(s, ClassDispatch, 2)
	require.Equal(t, State{StatusCompliant, 0, 0, false}, s)
}

func TestApplyIsPure(t *testing.T) {
	in := State{Status: StatusNoncompliant, DirectCount: 4, DispatchNeeded: 2, NextHireDispatch: true}
	before := in
	_ = Apply(in, ClassDispatch, 2)
	assert.Equal(t, before, in)
}

func TestParseHireClass(t *testing.T) {
	tests := []struct {
		raw  string
		want HireClass
	}{
		{"dispatch", ClassDispatch},
		{"Dispatch", ClassDispatch},
		{"DISPATCH", ClassDispatch},
		{"  dispatch \t", ClassDispatch},
		{"direct", ClassDirect},
		{"Direct", ClassDirect},
		// Unrecognized classifications count as direct rather than being
		// dropped: a malformed row still enters the ledger.
		{"", ClassDirect},
		{"referral", ClassDirect},
		{"dispatched", ClassDirect},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseHireClass(tt.raw), "raw=%q", tt.raw)
	}
}
