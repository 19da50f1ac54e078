package models

import (
	"encoding/json"
	"time"
)

// StructureType distinguishes a cohort-wide default from a per-student override
type StructureType string

const (
	StructureTypeCohort StructureType = "cohort"
	StructureTypeCustom StructureType = "custom"
)

// PaymentPlan is the schedule shape a student pays under
type PaymentPlan string

const (
	PaymentPlanOneShot        PaymentPlan = "one_shot"
	PaymentPlanSemWise        PaymentPlan = "sem_wise"
	PaymentPlanInstalmentWise PaymentPlan = "instalment_wise"
)

// FeeStructure is the fee configuration for a cohort, or for a single student
// when StudentID is set and StructureType is "custom". A custom structure
// supersedes the cohort default entirely.
type FeeStructure struct {
	ID                           string        `json:"id,omitempty"`
	CohortID                     string        `json:"cohort_id"`
	StudentID                    *string       `json:"student_id,omitempty"`
	StructureType                StructureType `json:"structure_type"`
	TotalProgramFee              float64       `json:"total_program_fee"`
	AdmissionFee                 float64       `json:"admission_fee"` // always GST-inclusive
	NumberOfSemesters            int           `json:"number_of_semesters"`
	InstalmentsPerSemester       int           `json:"instalments_per_semester"`
	OneShotDiscountPercentage    float64       `json:"one_shot_discount_percentage"`
	ProgramFeeIncludesGST        bool          `json:"program_fee_includes_gst"`
	EqualScholarshipDistribution bool          `json:"equal_scholarship_distribution"`
	CustomDatesEnabled           bool          `json:"custom_dates_enabled"`

	// Persisted date schedules, one blob per plan type. Stored in either the
	// nested or the legacy flat shape; normalized by the date scheduler.
	OneShotDates        json.RawMessage `json:"one_shot_dates,omitempty"`
	SemWiseDates        json.RawMessage `json:"sem_wise_dates,omitempty"`
	InstalmentWiseDates json.RawMessage `json:"instalment_wise_dates,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Cohort carries the fields the engine needs; the full cohort record belongs
// to the admin CRUD surface, not here.
type Cohort struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
}
