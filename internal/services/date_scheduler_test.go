package services

import (
	"encoding/json"
	"testing"
	"time"

	"cohort-backend/internal/models"
	"cohort-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var cohortStart = time.Date(2026, 1, 15, 0, 0, 0, 0, timeutil.IST)

func schedulerStructure() *models.FeeStructure {
	return &models.FeeStructure{
		NumberOfSemesters:      2,
		InstalmentsPerSemester: 2,
	}
}

func TestResolveGeneratedDefaults(t *testing.T) {
	s := NewDateScheduler(zap.NewNop())
	fs := schedulerStructure()

	t.Run("one-shot", func(t *testing.T) {
		dates := s.Resolve(fs, models.PaymentPlanOneShot, nil, cohortStart)
		assert.Equal(t, "2026-01-15", dates["one-shot"])
		assert.Equal(t, "2026-01-15", dates["admission"])
	})

	t.Run("sem-wise every six months", func(t *testing.T) {
		dates := s.Resolve(fs, models.PaymentPlanSemWise, nil, cohortStart)
		assert.Equal(t, "2026-01-15", dates["semester-1-instalment-1"])
		assert.Equal(t, "2026-07-15", dates["semester-2-instalment-1"])
	})

	t.Run("instalment-wise monthly within the semester window", func(t *testing.T) {
		dates := s.Resolve(fs, models.PaymentPlanInstalmentWise, nil, cohortStart)
		assert.Equal(t, "2026-01-15", dates["semester-1-instalment-1"])
		assert.Equal(t, "2026-02-15", dates["semester-1-instalment-2"])
		assert.Equal(t, "2026-07-15", dates["semester-2-instalment-1"])
		assert.Equal(t, "2026-08-15", dates["semester-2-instalment-2"])
	})

	t.Run("zero start date yields no defaults", func(t *testing.T) {
		dates := s.Resolve(fs, models.PaymentPlanInstalmentWise, nil, time.Time{})
		assert.Empty(t, dates)
	})
}

func TestResolvePersistedNestedSchedule(t *testing.T) {
	s := NewDateScheduler(zap.NewNop())
	fs := schedulerStructure()
	fs.CustomDatesEnabled = true
	fs.InstalmentWiseDates = json.RawMessage(`{
		"semesters": {
			"semester_1": {
				"due_date": "2026-02-01",
				"installments": {"installment_2": "2026-03-01"}
			}
		},
		"admission_date": "2026-01-10"
	}`)

	dates := s.Resolve(fs, models.PaymentPlanInstalmentWise, nil, cohortStart)

	assert.Equal(t, "2026-02-01", dates["semester-1-instalment-1"])
	assert.Equal(t, "2026-03-01", dates["semester-1-instalment-2"])
	assert.Equal(t, "2026-01-10", dates["admission"])
	// Untouched entries keep their generated defaults.
	assert.Equal(t, "2026-07-15", dates["semester-2-instalment-1"])
}

func TestResolvePersistedLegacyFlatSchedule(t *testing.T) {
	s := NewDateScheduler(zap.NewNop())
	fs := schedulerStructure()
	fs.CustomDatesEnabled = true
	fs.InstalmentWiseDates = json.RawMessage(`{"semester-1-instalment-1": "2026-04-01"}`)

	dates := s.Resolve(fs, models.PaymentPlanInstalmentWise, nil, cohortStart)
	assert.Equal(t, "2026-04-01", dates["semester-1-instalment-1"])
}

func TestResolvePersistedIgnoredWhenDisabled(t *testing.T) {
	s := NewDateScheduler(zap.NewNop())
	fs := schedulerStructure()
	fs.CustomDatesEnabled = false
	fs.InstalmentWiseDates = json.RawMessage(`{"semester-1-instalment-1": "2026-04-01"}`)

	dates := s.Resolve(fs, models.PaymentPlanInstalmentWise, nil, cohortStart)
	assert.Equal(t, "2026-01-15", dates["semester-1-instalment-1"])
}

func TestResolveCustomDatesWinOverEverything(t *testing.T) {
	s := NewDateScheduler(zap.NewNop())
	fs := schedulerStructure()
	fs.CustomDatesEnabled = true
	fs.InstalmentWiseDates = json.RawMessage(`{"semester-1-instalment-1": "2026-04-01"}`)

	custom := map[string]string{
		"semester-1-instalment-1": "2026-06-01",
		// RFC3339 values normalize to the wire layout.
		"semester-1-instalment-2": "2026-06-15T00:00:00Z",
		// Garbage degrades to empty instead of failing the request.
		"semester-2-instalment-1": "not-a-date",
	}

	dates := s.Resolve(fs, models.PaymentPlanInstalmentWise, custom, cohortStart)
	assert.Equal(t, "2026-06-01", dates["semester-1-instalment-1"])
	assert.Equal(t, "2026-06-15", dates["semester-1-instalment-2"])
	assert.Equal(t, "", dates["semester-2-instalment-1"])
}

func TestApplyWritesDatesOntoBreakdown(t *testing.T) {
	s := NewDateScheduler(zap.NewNop())

	b := &models.Breakdown{
		OneShotPayment: &models.OneShotPayment{},
		Semesters: []models.SemesterView{{
			SemesterNumber: 1,
			Instalments: []models.InstallmentView{
				{InstallmentID: "1-1", SemesterNumber: 1, InstallmentNumber: 1},
				{InstallmentID: "1-2", SemesterNumber: 1, InstallmentNumber: 2},
			},
		}},
	}

	s.Apply(b, ResolvedDates{
		"admission":               "2026-01-15",
		"one-shot":                "2026-01-15",
		"semester-1-instalment-1": "2026-02-01",
		"semester-1-instalment-2": "2026-03-01",
	})

	assert.Equal(t, "2026-01-15", b.AdmissionFee.PaymentDate)
	assert.Equal(t, "2026-01-15", b.OneShotPayment.PaymentDate)
	assert.Equal(t, "2026-02-01", b.Semesters[0].Instalments[0].PaymentDate)
	assert.Equal(t, "2026-03-01", b.Semesters[0].Instalments[1].PaymentDate)
}

func TestNormalizeDateFormats(t *testing.T) {
	cases := map[string]string{
		"2026-05-01":           "2026-05-01",
		"2026-05-01T00:00:00Z": "2026-05-01",
		"2026-05-01T10:30:00":  "2026-05-01",
		" 2026-05-01 ":         "2026-05-01",
	}
	for in, want := range cases {
		got, ok := normalizeDate(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "garbage", "01/05/2026"} {
		_, ok := normalizeDate(bad)
		assert.False(t, ok, bad)
	}
}
