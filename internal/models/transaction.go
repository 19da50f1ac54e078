package models

import "time"

// VerificationStatus is the lifecycle state of a recorded payment.
type VerificationStatus string

const (
	TxStatusPending             VerificationStatus = "pending"
	TxStatusVerificationPending VerificationStatus = "verification_pending"
	TxStatusApproved            VerificationStatus = "approved"
	TxStatusPartiallyApproved   VerificationStatus = "partially_approved"
	TxStatusRejected            VerificationStatus = "rejected"
)

// Transaction is a recorded payment against a specific installment. Created
// externally (gateway webhooks, manual entry); the engine only reads them,
// except for the split-approval path which mutates the original and inserts
// the remainder.
type Transaction struct {
	ID                     string             `json:"id"`
	StudentID              string             `json:"student_id"`
	CohortID               string             `json:"cohort_id"`
	Amount                 float64            `json:"amount"`
	VerificationStatus     VerificationStatus `json:"verification_status"`
	InstallmentID          *string            `json:"installment_id,omitempty"` // "semester-installment" key
	SemesterNumber         *int               `json:"semester_number,omitempty"`
	PartialPaymentSequence int                `json:"partial_payment_sequence"`
	AdminNotes             string             `json:"admin_notes,omitempty"`
	RejectionReason        string             `json:"rejection_reason,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at,omitempty"`
}

// HasAllocation reports whether the transaction can be matched to a schedule
// entry. Transactions with neither an installment id nor a semester number
// are unallocatable and must fail reconciliation hard.
func (t *Transaction) HasAllocation() bool {
	return (t.InstallmentID != nil && *t.InstallmentID != "") || t.SemesterNumber != nil
}
