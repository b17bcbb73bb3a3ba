package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/errors"
)

// memStore is an in-memory Store for engine tests. Writes stage inside a
// transaction and only reach the committed slices on commit, mirroring the
// all-or-nothing semantics of the real store.
type memStore struct {
	rules map[string]*RatioRule

	contractors []*Contractor
	hires       []*HireEvent

	runs      []*Run
	ledger    []*LedgerEntry
	summaries []*SummaryEntry

	nextRunID int

	// failLedgerInsertAt makes the Nth ledger insert of a transaction fail
	// (1-based); 0 disables.
	failLedgerInsertAt int
}

func newMemStore() *memStore {
	return &memStore{rules: map[string]*RatioRule{}}
}

func (m *memStore) addRule(name string, allowedDirect int) {
	m.rules[name] = &RatioRule{ID: "mode-" + name, Name: name, AllowedDirect: allowedDirect}
}

func (m *memStore) addContractor(id, name string) {
	m.contractors = append(m.contractors, &Contractor{ID: id, Name: name})
}

func (m *memStore) addHire(contractorID, memberID string, class HireClass, start, reviewed time.Time) {
	m.hires = append(m.hires, &HireEvent{
		ID:             fmt.Sprintf("hire-%d", len(m.hires)+1),
		ContractorID:   contractorID,
		ContractorName: contractorID + "-name",
		EmployerName:   "employer",
		MemberName:     "member " + memberID,
		MemberID:       memberID,
		Class:          class,
		StartDate:      start,
		ReviewedAt:     reviewed,
	})
}

func (m *memStore) GetRatioRule(_ context.Context, modeName string) (*RatioRule, error) {
	rule, ok := m.rules[modeName]
	if !ok {
		return nil, errors.NotFound("compliance_mode", modeName)
	}
	return rule, nil
}

func (m *memStore) InRunTransaction(ctx context.Context, dryRun bool, fn func(tx RunTx) error) error {
	tx := &memTx{store: m}
	if err := fn(tx); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	m.runs = append(m.runs, tx.stagedRuns...)
	m.ledger = append(m.ledger, tx.stagedLedger...)
	m.summaries = append(m.summaries, tx.stagedSummaries...)
	return nil
}

type memTx struct {
	store *memStore

	stagedRuns      []*Run
	stagedLedger    []*LedgerEntry
	stagedSummaries []*SummaryEntry
}

func (t *memTx) ListContractors(_ context.Context) ([]*Contractor, error) {
	out := make([]*Contractor, len(t.store.contractors))
	copy(out, t.store.contractors)
	return out, nil
}

func (t *memTx) ListHires(_ context.Context, contractorID string, since time.Time) ([]*HireEvent, error) {
	var out []*HireEvent
	for _, h := range t.store.hires {
		if h.ContractorID == contractorID && !h.StartDate.Before(since) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (t *memTx) NextSequence(_ context.Context, modeID string, cutover time.Time) (int, error) {
	max := 0
	for _, r := range t.allRuns() {
		if r.ModeID == modeID && r.CutoverDate.Equal(cutover) && r.Sequence > max {
			max = r.Sequence
		}
	}
	return max + 1, nil
}

func (t *memTx) FindPriorRun(_ context.Context, modeID string, cutover time.Time) (*Run, error) {
	var candidates []*Run
	for _, r := range t.allRuns() {
		if r.ModeID == modeID && r.CutoverDate.Before(cutover) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CutoverDate.Equal(candidates[j].CutoverDate) {
			return candidates[i].CutoverDate.After(candidates[j].CutoverDate)
		}
		return candidates[i].Sequence > candidates[j].Sequence
	})
	return candidates[0], nil
}

func (t *memTx) GetSummary(_ context.Context, runID, contractorID string) (*SummaryEntry, error) {
	for _, s := range t.store.summaries {
		if s.RunID == runID && s.ContractorID == contractorID {
			return s, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreateRun(_ context.Context, run *Run) error {
	t.store.nextRunID++
	run.ID = fmt.Sprintf("run-%d", t.store.nextRunID)
	run.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t.stagedRuns = append(t.stagedRuns, run)
	return nil
}

func (t *memTx) InsertLedgerEntry(_ context.Context, e *LedgerEntry) error {
	if n := t.store.failLedgerInsertAt; n > 0 && len(t.stagedLedger)+1 == n {
		return errors.New(errors.ErrCodeTransaction, "storage unavailable")
	}
	e.ID = fmt.Sprintf("ledger-%d", len(t.stagedLedger)+1)
	t.stagedLedger = append(t.stagedLedger, e)
	return nil
}

func (t *memTx) InsertSummaryEntry(_ context.Context, e *SummaryEntry) error {
	e.ID = fmt.Sprintf("summary-%d", len(t.stagedSummaries)+1)
	t.stagedSummaries = append(t.stagedSummaries, e)
	return nil
}

func (t *memTx) allRuns() []*Run {
	out := make([]*Run, 0, len(t.store.runs)+len(t.stagedRuns))
	out = append(out, t.store.runs...)
	out = append(out, t.stagedRuns...)
	return out
}
