package services

import (
	"context"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"

	"go.uber.org/zap"
)

type feeStructureStore interface {
	GetCohortDefault(ctx context.Context, cohortID string) (*models.FeeStructure, error)
	GetCustomForStudent(ctx context.Context, cohortID, studentID string) (*models.FeeStructure, error)
}

// FeeStructureResolver loads the applicable fee configuration. Priority:
// explicit preview override > per-student custom structure > cohort default.
type FeeStructureResolver struct {
	store feeStructureStore
	log   *zap.Logger
}

func NewFeeStructureResolver(store feeStructureStore, log *zap.Logger) *FeeStructureResolver {
	return &FeeStructureResolver{store: store, log: log}
}

func (r *FeeStructureResolver) Resolve(ctx context.Context, cohortID, studentID string, preview *models.FeeStructure) (*models.FeeStructure, error) {
	if preview != nil {
		if preview.CohortID == "" {
			preview.CohortID = cohortID
		}
		return preview, nil
	}

	if studentID != "" {
		custom, err := r.store.GetCustomForStudent(ctx, cohortID, studentID)
		if err != nil {
			return nil, err
		}
		if custom != nil {
			return custom, nil
		}
	}

	def, err := r.store.GetCohortDefault(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, engineerrors.NewConfiguration("no fee structure configured for cohort %s", cohortID)
	}
	return def, nil
}
