package models

import "fmt"

// InstallmentStatus is the derived payment status of one installment, or of
// the whole schedule when used as an aggregate.
type InstallmentStatus string

const (
	StatusWaived                           InstallmentStatus = "waived"
	StatusPartiallyWaived                  InstallmentStatus = "partially_waived"
	StatusPaid                             InstallmentStatus = "paid"
	StatusVerificationPending              InstallmentStatus = "verification_pending"
	StatusPartiallyPaidVerificationPending InstallmentStatus = "partially_paid_verification_pending"
	StatusOverdue                          InstallmentStatus = "overdue"
	StatusPartiallyPaidOverdue             InstallmentStatus = "partially_paid_overdue"
	StatusPartiallyPaidDaysLeft            InstallmentStatus = "partially_paid_days_left"
	StatusPending10PlusDays                InstallmentStatus = "pending_10_plus_days"
	StatusPending                          InstallmentStatus = "pending"
)

// InstallmentKey builds the canonical "semester-installment" composite key
// used for installment ids, partial-payment config and date lookups.
func InstallmentKey(semester, installment int) string {
	return fmt.Sprintf("%d-%d", semester, installment)
}

// InstallmentView is one schedule entry. Monetary components keep 2-decimal
// precision; AmountPayable is a whole currency unit, never negative.
type InstallmentView struct {
	InstallmentID     string  `json:"installmentId"`
	SemesterNumber    int     `json:"semesterNumber"`
	InstallmentNumber int     `json:"installmentNumber"`
	PaymentDate       string  `json:"paymentDate"`
	BaseAmount        float64 `json:"baseAmount"`
	GSTAmount         float64 `json:"gstAmount"`
	ScholarshipAmount float64 `json:"scholarshipAmount"`
	DiscountAmount    float64 `json:"discountAmount"`
	AmountPayable     float64 `json:"amountPayable"`

	// Set by reconciliation only.
	Status        InstallmentStatus `json:"status,omitempty"`
	AmountPaid    *float64          `json:"amountPaid,omitempty"`
	AmountPending *float64          `json:"amountPending,omitempty"`
}

// SemesterTotals sums the installments of one semester.
type SemesterTotals struct {
	BaseAmount        float64 `json:"baseAmount"`
	GSTAmount         float64 `json:"gstAmount"`
	ScholarshipAmount float64 `json:"scholarshipAmount"`
	DiscountAmount    float64 `json:"discountAmount"`
	TotalPayable      float64 `json:"totalPayable"`
}

// SemesterView is an ordered semester block of the schedule.
type SemesterView struct {
	SemesterNumber int               `json:"semesterNumber"`
	Instalments    []InstallmentView `json:"instalments"`
	Total          SemesterTotals    `json:"total"`
}

// AdmissionFeeBlock reports the admission fee, which is always treated as
// GST-inclusive regardless of the program-fee mode flag.
type AdmissionFeeBlock struct {
	BaseAmount        float64 `json:"baseAmount"`
	GSTAmount         float64 `json:"gstAmount"`
	ScholarshipAmount float64 `json:"scholarshipAmount"`
	DiscountAmount    float64 `json:"discountAmount"`
	TotalPayable      float64 `json:"totalPayable"`
	PaymentDate       string  `json:"paymentDate"`
}

// OneShotPayment is the single-installment alternative to the semester
// schedule. The one-shot discount is reported separately; the additional
// manual discount is folded into ScholarshipAmount.
type OneShotPayment struct {
	PaymentDate       string  `json:"paymentDate"`
	BaseAmount        float64 `json:"baseAmount"`
	GSTAmount         float64 `json:"gstAmount"`
	DiscountAmount    float64 `json:"discountAmount"` // one-shot discount
	ScholarshipAmount float64 `json:"scholarshipAmount"`
	AmountPayable     float64 `json:"amountPayable"`

	Status        InstallmentStatus `json:"status,omitempty"`
	AmountPaid    *float64          `json:"amountPaid,omitempty"`
	AmountPending *float64          `json:"amountPending,omitempty"`
}

// OverallSummary aggregates the whole schedule.
type OverallSummary struct {
	TotalProgramFee    float64 `json:"totalProgramFee"`
	AdmissionFee       float64 `json:"admissionFee"`
	TotalGST           float64 `json:"totalGST"`
	TotalDiscount      float64 `json:"totalDiscount"`
	TotalScholarship   float64 `json:"totalScholarship"`
	TotalAmountPayable float64 `json:"totalAmountPayable"`
}

// Breakdown is the full computed fee schedule for one student and plan.
type Breakdown struct {
	AdmissionFee   AdmissionFeeBlock `json:"admissionFee"`
	Semesters      []SemesterView    `json:"semesters"`
	OneShotPayment *OneShotPayment   `json:"oneShotPayment,omitempty"`
	OverallSummary OverallSummary    `json:"overallSummary"`
}
