package repositories

import (
	"context"
	"errors"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CohortRepository struct {
	DB *pgxpool.Pool
}

func NewCohortRepository(db *pgxpool.Pool) *CohortRepository {
	return &CohortRepository{DB: db}
}

func (r *CohortRepository) GetByID(ctx context.Context, id string) (*models.Cohort, error) {
	query := `
		SELECT id, name, start_date
		FROM cohorts
		WHERE id = $1
	`

	c := &models.Cohort{}
	err := r.DB.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.StartDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engineerrors.NewNotFound("cohort %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}
