package services

import (
	"context"
	"errors"
	"testing"

	"cohort-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockScholarshipStore struct {
	mock.Mock
}

func (m *mockScholarshipStore) GetByID(ctx context.Context, id string) (*models.Scholarship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*models.Scholarship), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestResolveSavedScholarship(t *testing.T) {
	store := &mockScholarshipStore{}
	store.On("GetByID", mock.Anything, "sch-1").Return(&models.Scholarship{
		ID:               "sch-1",
		Name:             "Merit",
		AmountPercentage: 15,
	}, nil)

	r := NewScholarshipResolver(store, zap.NewNop())
	got := r.Resolve(context.Background(), models.ScholarshipRef{Kind: models.ScholarshipRefSaved, SavedID: "sch-1"}, 5, 118000)

	assert.Equal(t, "Merit", got.Name)
	assert.Equal(t, 15.0, got.BasePercentage)
	assert.Equal(t, 5.0, got.AdditionalPercentage)
	assert.Equal(t, 20.0, got.TotalPercentage)
	assert.Equal(t, 23600.0, got.Amount)
}

func TestResolveMissingScholarshipDegradesSoftly(t *testing.T) {
	store := &mockScholarshipStore{}
	store.On("GetByID", mock.Anything, "gone").Return(nil, nil)

	r := NewScholarshipResolver(store, zap.NewNop())
	got := r.Resolve(context.Background(), models.ScholarshipRef{Kind: models.ScholarshipRefSaved, SavedID: "gone"}, 5, 118000)

	// The broken reference contributes nothing; only the manual discount
	// survives.
	assert.Equal(t, 0.0, got.BasePercentage)
	assert.Equal(t, 5.0, got.TotalPercentage)
	assert.Equal(t, 5900.0, got.Amount)
}

func TestResolveLookupErrorDegradesSoftly(t *testing.T) {
	store := &mockScholarshipStore{}
	store.On("GetByID", mock.Anything, "sch-1").Return(nil, errors.New("db down"))

	r := NewScholarshipResolver(store, zap.NewNop())
	got := r.Resolve(context.Background(), models.ScholarshipRef{Kind: models.ScholarshipRefSaved, SavedID: "sch-1"}, 0, 118000)

	assert.Equal(t, 0.0, got.TotalPercentage)
	assert.Equal(t, 0.0, got.Amount)
}

func TestResolveEphemeralScholarshipClampsPercentage(t *testing.T) {
	r := NewScholarshipResolver(&mockScholarshipStore{}, zap.NewNop())

	got := r.Resolve(context.Background(), models.ScholarshipRef{
		Kind:       models.ScholarshipRefEphemeral,
		Name:       "Founders",
		Percentage: 150,
	}, 0, 100000)
	assert.Equal(t, 100.0, got.BasePercentage)
	assert.Equal(t, 100000.0, got.Amount)

	got = r.Resolve(context.Background(), models.ScholarshipRef{
		Kind:       models.ScholarshipRefEphemeral,
		Percentage: -10,
	}, 0, 100000)
	assert.Equal(t, 0.0, got.BasePercentage)
}

func TestResolveNoScholarship(t *testing.T) {
	r := NewScholarshipResolver(&mockScholarshipStore{}, zap.NewNop())

	got := r.Resolve(context.Background(), models.ScholarshipRef{Kind: models.ScholarshipRefNone}, 0, 100000)
	assert.Equal(t, 0.0, got.TotalPercentage)
	assert.Equal(t, 0.0, got.Amount)
}
