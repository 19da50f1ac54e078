package repositories

import (
	"context"
	"errors"

	"cohort-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeeStructureRepository struct {
	DB *pgxpool.Pool
}

func NewFeeStructureRepository(db *pgxpool.Pool) *FeeStructureRepository {
	return &FeeStructureRepository{DB: db}
}

const feeStructureColumns = `
	id, cohort_id, student_id, structure_type, total_program_fee, admission_fee,
	number_of_semesters, instalments_per_semester, one_shot_discount_percentage,
	program_fee_includes_gst, equal_scholarship_distribution, custom_dates_enabled,
	COALESCE(one_shot_dates, 'null'::jsonb), COALESCE(sem_wise_dates, 'null'::jsonb),
	COALESCE(instalment_wise_dates, 'null'::jsonb), created_at, updated_at
`

func scanFeeStructure(row pgx.Row) (*models.FeeStructure, error) {
	fs := &models.FeeStructure{}
	err := row.Scan(
		&fs.ID,
		&fs.CohortID,
		&fs.StudentID,
		&fs.StructureType,
		&fs.TotalProgramFee,
		&fs.AdmissionFee,
		&fs.NumberOfSemesters,
		&fs.InstalmentsPerSemester,
		&fs.OneShotDiscountPercentage,
		&fs.ProgramFeeIncludesGST,
		&fs.EqualScholarshipDistribution,
		&fs.CustomDatesEnabled,
		&fs.OneShotDates,
		&fs.SemWiseDates,
		&fs.InstalmentWiseDates,
		&fs.CreatedAt,
		&fs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// GetCohortDefault returns the cohort-wide fee structure, or nil when the
// cohort has none configured.
func (r *FeeStructureRepository) GetCohortDefault(ctx context.Context, cohortID string) (*models.FeeStructure, error) {
	query := `
		SELECT ` + feeStructureColumns + `
		FROM fee_structures
		WHERE cohort_id = $1 AND structure_type = 'cohort' AND student_id IS NULL
	`

	fs, err := scanFeeStructure(r.DB.QueryRow(ctx, query, cohortID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// GetCustomForStudent returns the per-student override, or nil when the
// student has no custom structure in this cohort.
func (r *FeeStructureRepository) GetCustomForStudent(ctx context.Context, cohortID, studentID string) (*models.FeeStructure, error) {
	query := `
		SELECT ` + feeStructureColumns + `
		FROM fee_structures
		WHERE cohort_id = $1 AND student_id = $2 AND structure_type = 'custom'
	`

	fs, err := scanFeeStructure(r.DB.QueryRow(ctx, query, cohortID, studentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}
