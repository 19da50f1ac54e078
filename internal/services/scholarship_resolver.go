package services

import (
	"context"

	"cohort-backend/internal/models"

	"go.uber.org/zap"
)

type scholarshipStore interface {
	GetByID(ctx context.Context, id string) (*models.Scholarship, error)
}

// ScholarshipResolver collapses a saved or ephemeral scholarship plus the
// manual additional discount into one resolved amount. An unresolvable
// scholarship id is a soft failure: logged, amount degrades to zero, the
// computation continues.
type ScholarshipResolver struct {
	store scholarshipStore
	log   *zap.Logger
}

func NewScholarshipResolver(store scholarshipStore, log *zap.Logger) *ScholarshipResolver {
	return &ScholarshipResolver{store: store, log: log}
}

func (r *ScholarshipResolver) Resolve(ctx context.Context, ref models.ScholarshipRef, additionalPct, totalProgramFee float64) *models.ResolvedScholarship {
	resolved := &models.ResolvedScholarship{
		AdditionalPercentage: additionalPct,
	}

	switch ref.Kind {
	case models.ScholarshipRefSaved:
		s, err := r.store.GetByID(ctx, ref.SavedID)
		if err != nil {
			r.log.Warn("scholarship lookup failed, continuing without it",
				zap.String("scholarship_id", ref.SavedID), zap.Error(err))
		} else if s == nil {
			r.log.Warn("scholarship not found, continuing without it",
				zap.String("scholarship_id", ref.SavedID))
		} else {
			resolved.Name = s.Name
			resolved.BasePercentage = s.AmountPercentage
		}
	case models.ScholarshipRefEphemeral:
		resolved.Name = ref.Name
		resolved.BasePercentage = clampPercentage(ref.Percentage)
	}

	resolved.TotalPercentage = resolved.BasePercentage + resolved.AdditionalPercentage
	resolved.Amount = toFloat(percentOf(money(totalProgramFee), money(resolved.TotalPercentage)))
	return resolved
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
