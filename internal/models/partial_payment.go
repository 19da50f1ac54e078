package models

// MaxPartialPaymentsPerInstallment caps how many sequenced partial payments
// an installment may accumulate.
const MaxPartialPaymentsPerInstallment = 2

// ApprovalType is the admin's decision on a submitted transaction.
type ApprovalType string

const (
	ApprovalReject  ApprovalType = "reject"
	ApprovalFull    ApprovalType = "full"
	ApprovalPartial ApprovalType = "partial"
)

// PartialPaymentSummary describes where an installment stands across its
// sequenced partial payments.
type PartialPaymentSummary struct {
	InstallmentID         string         `json:"installmentId"`
	OriginalAmount        float64        `json:"originalAmount"`
	TotalPaid             float64        `json:"totalPaid"`
	PendingAmount         float64        `json:"pendingAmount"`
	PaymentCount          int            `json:"paymentCount"`
	MaxPartialPayments    int            `json:"maxPartialPayments"`
	CanMakeAnotherPayment bool           `json:"canMakeAnotherPayment"`
	Transactions          []*Transaction `json:"transactions"`
}

// PartialPaymentConfig is the per-student map of installment keys
// ("semester-installment") to whether partial payments are allowed there.
type PartialPaymentConfig struct {
	StudentID string          `json:"student_id"`
	CohortID  string          `json:"cohort_id"`
	Allowed   map[string]bool `json:"allowed"`
}

// AllowsPartial reports the toggle for one installment key; absent keys
// default to disallowed.
func (c *PartialPaymentConfig) AllowsPartial(key string) bool {
	if c == nil || c.Allowed == nil {
		return false
	}
	return c.Allowed[key]
}
