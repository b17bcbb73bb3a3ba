package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/database"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/errors"
)

// HireRepository reads recorded hire events. Hire events are ingested
// elsewhere and never mutated here.
type HireRepository struct {
	db *database.DB
}

// NewHireRepository creates a new HireRepository.
func NewHireRepository(db *database.DB) *HireRepository {
	return &HireRepository{db: db}
}

// ListContractors returns every contractor that has at least one recorded
// hire event of any date.
func (r *HireRepository) ListContractors(ctx context.Context, tx pgx.Tx) ([]*engine.Contractor, error) {
	query := `
		SELECT contractor_id, MAX(contractor_name) AS contractor_name
		FROM hire_events
		GROUP BY contractor_id
		ORDER BY contractor_name, contractor_id
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list contractors")
	}
	defer rows.Close()

	contractors := make([]*engine.Contractor, 0)
	for rows.Next() {
		c := &engine.Contractor{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan contractor")
		}
		contractors = append(contractors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list contractors")
	}

	return contractors, nil
}

// ListHires returns a contractor's hire events with start date at or after
// since, ordered by start date, review timestamp, member ID.
func (r *HireRepository) ListHires(ctx context.Context, tx pgx.Tx, contractorID string, since time.Time) ([]*engine.HireEvent, error) {
	query := `
		SELECT id, contractor_id, contractor_name, employer_name,
		       member_name, member_id, classification,
		       start_date, reviewed_at
		FROM hire_events
		WHERE contractor_id = $1
		  AND start_date >= $2
		ORDER BY start_date, reviewed_at, member_id
	`

	rows, err := tx.Query(ctx, query, contractorID, since)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list hire events")
	}
	defer rows.Close()

	hires := make([]*engine.HireEvent, 0)
	for rows.Next() {
		h := &engine.HireEvent{}
		var classification string
		err := rows.Scan(
			&h.ID,
			&h.ContractorID,
			&h.ContractorName,
			&h.EmployerName,
			&h.MemberName,
			&h.MemberID,
			&classification,
			&h.StartDate,
			&h.ReviewedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan hire event")
		}
		h.Class = engine.ParseHireClass(classification)
		hires = append(hires, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list hire events")
	}

	return hires, nil
}
