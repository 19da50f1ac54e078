package models

import "time"

// Scholarship is a saved, cohort-scoped percentage waiver.
type Scholarship struct {
	ID               string    `json:"id"`
	CohortID         string    `json:"cohort_id"`
	Name             string    `json:"name"`
	AmountPercentage float64   `json:"amount_percentage"` // 0..100
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// ScholarshipRefKind tags how a scholarship was supplied by the caller.
type ScholarshipRefKind string

const (
	ScholarshipRefNone      ScholarshipRefKind = "none"
	ScholarshipRefSaved     ScholarshipRefKind = "saved"
	ScholarshipRefEphemeral ScholarshipRefKind = "ephemeral"
)

// ScholarshipRef is the tagged variant resolved once per request: either a
// saved scholarship id, or an ephemeral percentage+name supplied inline for
// previews. Resolved by the scholarship resolver before any calculation.
type ScholarshipRef struct {
	Kind       ScholarshipRefKind
	SavedID    string
	Percentage float64
	Name       string
}

// EphemeralScholarship is the wire shape for an inline scholarship.
type EphemeralScholarship struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// ResolvedScholarship is the single scholarship outcome used by the
// calculator: percentages already stacked with the manual discount.
type ResolvedScholarship struct {
	Name                 string  `json:"name,omitempty"`
	BasePercentage       float64 `json:"base_percentage"`
	AdditionalPercentage float64 `json:"additional_percentage"`
	TotalPercentage      float64 `json:"total_percentage"`
	Amount               float64 `json:"amount"` // round(totalProgramFee * pct/100, 2dp)
}
