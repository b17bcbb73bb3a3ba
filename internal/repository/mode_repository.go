package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/database"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/errors"
)

// ModeRepository resolves compliance modes to their ratio rules.
type ModeRepository struct {
	db *database.DB
}

// NewModeRepository creates a new ModeRepository.
func NewModeRepository(db *database.DB) *ModeRepository {
	return &ModeRepository{db: db}
}

// GetRatioRule looks up a mode by name.
func (r *ModeRepository) GetRatioRule(ctx context.Context, modeName string) (*engine.RatioRule, error) {
	query := `
		SELECT id, name, allowed_direct
		FROM compliance_modes
		WHERE name = $1
	`

	rule := &engine.RatioRule{}
	err := r.db.QueryRow(ctx, query, modeName).Scan(&rule.ID, &rule.Name, &rule.AllowedDirect)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("compliance_mode", modeName)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get compliance mode")
	}

	return rule, nil
}
