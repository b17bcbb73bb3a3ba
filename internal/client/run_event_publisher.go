// Package client holds outbound collaborators: the NATS event publisher.
package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
)

// runCompletedSubject is where committed-run events are published.
// Dry runs never publish.
const runCompletedSubject = "compliance.runs.completed"

// RunEventPublisher publishes run lifecycle events to NATS.
//
// All publish operations are non-fatal — errors are logged but never
// propagated, so a NATS outage never fails a committed run.
type RunEventPublisher struct {
	conn *nats.Conn
	log  zerolog.Logger
}

// RunCompletedEvent is the JSON schema published on run completion.
type RunCompletedEvent struct {
	RunID           string    `json:"run_id"`
	Mode            string    `json:"mode"`
	CutoverDate     string    `json:"cutover_date"`
	Sequence        int       `json:"sequence"`
	ContractorCount int       `json:"contractor_count"`
	HireCount       int       `json:"hire_count"`
	CompletedAt     time.Time `json:"completed_at"`
}

// NewRunEventPublisher creates a publisher backed by the given NATS
// connection. A nil connection disables publishing.
func NewRunEventPublisher(conn *nats.Conn, log zerolog.Logger) *RunEventPublisher {
	return &RunEventPublisher{conn: conn, log: log}
}

// PublishRunCompleted publishes the committed run's headline numbers.
func (p *RunEventPublisher) PublishRunCompleted(ctx context.Context, result *engine.RunResult) {
	if p.conn == nil || result == nil || result.Run == nil {
		return
	}

	event := &RunCompletedEvent{
		RunID:           result.Run.ID,
		Mode:            result.Run.ModeName,
		CutoverDate:     result.Run.CutoverDate.Format("2006-01-02"),
		Sequence:        result.Run.Sequence,
		ContractorCount: len(result.Summaries),
		HireCount:       len(result.Ledger),
		CompletedAt:     result.Run.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Msg("run event: failed to marshal event")
		return
	}

	if err := p.conn.Publish(runCompletedSubject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", runCompletedSubject).
			Str("run_id", result.Run.ID).
			Msg("run event: failed to publish NATS event (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", runCompletedSubject).
		Str("run_id", result.Run.ID).
		Msg("run event: event published")
}
