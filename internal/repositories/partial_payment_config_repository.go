package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"cohort-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PartialPaymentConfigRepository struct {
	DB *pgxpool.Pool
}

func NewPartialPaymentConfigRepository(db *pgxpool.Pool) *PartialPaymentConfigRepository {
	return &PartialPaymentConfigRepository{DB: db}
}

// Get returns the student's partial-payment toggles. A student with no row
// gets an empty config (everything disallowed).
func (r *PartialPaymentConfigRepository) Get(ctx context.Context, studentID, cohortID string) (*models.PartialPaymentConfig, error) {
	query := `
		SELECT config
		FROM partial_payment_configs
		WHERE student_id = $1 AND cohort_id = $2
	`

	cfg := &models.PartialPaymentConfig{
		StudentID: studentID,
		CohortID:  cohortID,
		Allowed:   map[string]bool{},
	}

	var raw []byte
	err := r.DB.QueryRow(ctx, query, studentID, cohortID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &cfg.Allowed); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetAllowed flips the toggle for one "semester-installment" key. The merge
// happens in Postgres so concurrent toggles on different keys don't clobber
// each other.
func (r *PartialPaymentConfigRepository) SetAllowed(ctx context.Context, studentID, cohortID, installmentKey string, allowed bool) (*models.PartialPaymentConfig, error) {
	query := `
		INSERT INTO partial_payment_configs (student_id, cohort_id, config)
		VALUES ($1, $2, jsonb_build_object($3::text, $4::boolean))
		ON CONFLICT (student_id, cohort_id)
		DO UPDATE SET
			config = partial_payment_configs.config || jsonb_build_object($3::text, $4::boolean),
			updated_at = NOW()
		RETURNING config
	`

	cfg := &models.PartialPaymentConfig{
		StudentID: studentID,
		CohortID:  cohortID,
		Allowed:   map[string]bool{},
	}

	var raw []byte
	if err := r.DB.QueryRow(ctx, query, studentID, cohortID, installmentKey, allowed).Scan(&raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &cfg.Allowed); err != nil {
		return nil, err
	}
	return cfg, nil
}
