package repositories

import (
	"context"
	"errors"

	"cohort-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScholarshipRepository struct {
	DB *pgxpool.Pool
}

func NewScholarshipRepository(db *pgxpool.Pool) *ScholarshipRepository {
	return &ScholarshipRepository{DB: db}
}

// GetByID returns nil when the scholarship does not exist; the resolver
// treats that as a soft failure, not an error.
func (r *ScholarshipRepository) GetByID(ctx context.Context, id string) (*models.Scholarship, error) {
	query := `
		SELECT id, cohort_id, name, amount_percentage, created_at
		FROM scholarships
		WHERE id = $1
	`

	s := &models.Scholarship{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.CohortID,
		&s.Name,
		&s.AmountPercentage,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}
