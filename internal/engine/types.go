package engine

import (
	"strings"
	"time"
)

// ── Domain types for compliance runs ─────────────────────────────────────────

// HireClass is the hire classification, resolved once when rows are read.
// The state machine never touches the raw string.
type HireClass int

const (
	ClassDirect HireClass = iota
	ClassDispatch
)

func (c HireClass) String() string {
	if c == ClassDispatch {
		return "dispatch"
	}
	return "direct"
}

// ParseHireClass folds a raw classification string to a HireClass.
// Anything that does not trim and case-fold to "dispatch" counts as a direct
// hire, so malformed rows are evaluated rather than silently dropped.
func ParseHireClass(raw string) HireClass {
	if strings.EqualFold(strings.TrimSpace(raw), "dispatch") {
		return ClassDispatch
	}
	return ClassDirect
}

// ComplianceStatus is the contractor's standing under the ratio rule.
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusNoncompliant ComplianceStatus = "noncompliant"
)

// RatioRule is one configured compliance mode: AllowedDirect direct hires are
// permitted before a dispatch hire is owed.
type RatioRule struct {
	ID            string
	Name          string
	AllowedDirect int
}

// Contractor identifies a staffing agency under evaluation.
type Contractor struct {
	ID   string
	Name string
}

// HireEvent is one immutable recorded hire.
type HireEvent struct {
	ID             string
	ContractorID   string
	ContractorName string
	EmployerName   string
	MemberName     string
	MemberID       string
	Class          HireClass
	StartDate      time.Time // effective start date
	ReviewedAt     time.Time // observation/review timestamp
}

// Run is one batch evaluation of all contractors as of a cutover date.
// Sequence is scoped to (mode, cutover date) and increases monotonically.
type Run struct {
	ID          string
	ModeID      string
	ModeName    string
	CutoverDate time.Time
	Sequence    int
	CreatedAt   time.Time
}

// LedgerEntry is the audit row for one (run, hire) pair: the hire's identity
// fields plus the compliance state after applying that hire. Append-only.
type LedgerEntry struct {
	ID             string
	RunID          string
	ContractorID   string
	ContractorName string
	EmployerName   string
	MemberName     string
	MemberID       string
	Class          HireClass
	StartDate      time.Time
	ReviewedAt     time.Time

	Status           ComplianceStatus
	DirectCount      int
	DispatchNeeded   int
	NextHireDispatch bool
}

// SummaryEntry is a contractor's final compliance state at the end of a run.
// Exactly one per contractor per run.
type SummaryEntry struct {
	ID             string
	RunID          string
	ContractorID   string
	ContractorName string

	Status           ComplianceStatus
	DirectCount      int
	DispatchNeeded   int
	NextHireDispatch bool
}
