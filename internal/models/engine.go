package models

// EngineAction selects which payment-engine operation a request performs.
type EngineAction string

const (
	ActionBreakdown            EngineAction = "breakdown"
	ActionStatus               EngineAction = "status"
	ActionFull                 EngineAction = "full"
	ActionPartialCalculation   EngineAction = "partial_calculation"
	ActionAdminPartialApproval EngineAction = "admin_partial_approval"
	ActionPartialConfig        EngineAction = "partial_config"
)

// EngineRequest is the single action-dispatched request contract.
type EngineRequest struct {
	Action EngineAction `json:"action"`

	CohortID                     string                `json:"cohortId"`
	StudentID                    string                `json:"studentId,omitempty"`
	PaymentPlan                  PaymentPlan           `json:"paymentPlan,omitempty"`
	ScholarshipID                string                `json:"scholarshipId,omitempty"`
	ScholarshipData              *EphemeralScholarship `json:"scholarshipData,omitempty"`
	AdditionalDiscountPercentage float64               `json:"additionalDiscountPercentage,omitempty"`
	CustomDates                  map[string]string     `json:"customDates,omitempty"`
	FeeStructureData             *FeeStructure         `json:"feeStructureData,omitempty"` // preview override

	// Partial-payment specific fields.
	InstallmentID        string       `json:"installmentId,omitempty"`
	TransactionID        string       `json:"transactionId,omitempty"`
	ApprovalType         ApprovalType `json:"approvalType,omitempty"`
	ApprovedAmount       *float64     `json:"approvedAmount,omitempty"`
	AdminNotes           string       `json:"adminNotes,omitempty"`
	RejectionReason      string       `json:"rejectionReason,omitempty"`
	AllowPartialPayments *bool        `json:"allowPartialPayments,omitempty"`
}

// ScholarshipRef builds the tagged variant from the request fields. A saved
// id wins over inline data.
func (r *EngineRequest) ScholarshipRef() ScholarshipRef {
	if r.ScholarshipID != "" {
		return ScholarshipRef{Kind: ScholarshipRefSaved, SavedID: r.ScholarshipID}
	}
	if r.ScholarshipData != nil {
		return ScholarshipRef{
			Kind:       ScholarshipRefEphemeral,
			Percentage: r.ScholarshipData.Percentage,
			Name:       r.ScholarshipData.Name,
		}
	}
	return ScholarshipRef{Kind: ScholarshipRefNone}
}

// CurrentInstallment points at the installment the aggregate status derives
// its "current" view from.
type CurrentInstallment struct {
	InstallmentID string            `json:"installmentId"`
	Status        InstallmentStatus `json:"status"`
	PaymentDate   string            `json:"paymentDate,omitempty"`
}

// AggregateStatus is the schedule-wide reconciliation result.
type AggregateStatus struct {
	Status             InstallmentStatus   `json:"status"`
	CurrentInstallment *CurrentInstallment `json:"currentInstallment,omitempty"`
	TotalPaid          float64             `json:"totalPaid"`
	TotalPending       float64             `json:"totalPending"`
	TotalPayable       float64             `json:"totalPayable"`
}

// EngineResponse is the single response envelope. On failure only Success and
// Error are set; callers must never render from a failed response.
type EngineResponse struct {
	Success        bool                   `json:"success"`
	Breakdown      *Breakdown             `json:"breakdown,omitempty"`
	FeeStructure   *FeeStructure          `json:"feeStructure,omitempty"`
	Aggregate      *AggregateStatus       `json:"aggregate,omitempty"`
	PartialSummary *PartialPaymentSummary `json:"partialSummary,omitempty"`
	Transaction    *Transaction           `json:"transaction,omitempty"`
	PartialConfig  *PartialPaymentConfig  `json:"partialConfig,omitempty"`
	Error          string                 `json:"error,omitempty"`
	Debug          map[string]interface{} `json:"debug,omitempty"`
}
