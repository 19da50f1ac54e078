package services

import (
	"context"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type transactionStore interface {
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListForStudent(ctx context.Context, cohortID, studentID string) ([]*models.Transaction, error)
	ListForInstallment(ctx context.Context, studentID, installmentID string) ([]*models.Transaction, error)
	Approve(ctx context.Context, id, adminNotes string) (*models.Transaction, error)
	Reject(ctx context.Context, id, reason string) (*models.Transaction, error)
	SplitApprove(ctx context.Context, original *models.Transaction, approvedAmount, remainderAmount float64, adminNotes string) (*models.Transaction, error)
}

type partialConfigStore interface {
	Get(ctx context.Context, studentID, cohortID string) (*models.PartialPaymentConfig, error)
	SetAllowed(ctx context.Context, studentID, cohortID, installmentKey string, allowed bool) (*models.PartialPaymentConfig, error)
}

// PartialPaymentService owns partial-payment summaries, the admin
// split-approval workflow and the per-installment toggles. Split-approval is
// the engine's only write path that creates transactions.
type PartialPaymentService struct {
	txns    transactionStore
	configs partialConfigStore
	log     *zap.Logger
}

func NewPartialPaymentService(txns transactionStore, configs partialConfigStore, log *zap.Logger) *PartialPaymentService {
	return &PartialPaymentService{txns: txns, configs: configs, log: log}
}

// Summary reports where one installment stands across its sequenced partial
// payments. originalAmount is the installment's payable from the breakdown.
func (s *PartialPaymentService) Summary(ctx context.Context, studentID, cohortID, installmentID string, originalAmount float64) (*models.PartialPaymentSummary, error) {
	if installmentID == "" {
		return nil, engineerrors.NewValidation("installmentId is required")
	}

	txns, err := s.txns.ListForInstallment(ctx, studentID, installmentID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configs.Get(ctx, studentID, cohortID)
	if err != nil {
		s.log.Warn("partial-payment config lookup failed, treating installment as not enabled",
			zap.String("student_id", studentID),
			zap.String("installment_id", installmentID),
			zap.Error(err))
		cfg = nil
	}

	totalPaid := decimal.Zero
	count := 0
	for _, t := range txns {
		if t.VerificationStatus == models.TxStatusRejected {
			continue
		}
		count++
		if t.VerificationStatus == models.TxStatusApproved || t.VerificationStatus == models.TxStatusPartiallyApproved {
			totalPaid = totalPaid.Add(money(t.Amount))
		}
	}

	pending := clampZero(roundRupee(money(originalAmount).Sub(totalPaid)))

	// A first payment is always possible while anything is pending; paying in
	// further pieces needs the installment's partial toggle switched on.
	canPayAgain := count < models.MaxPartialPaymentsPerInstallment && pending.IsPositive() &&
		(count == 0 || cfg.AllowsPartial(installmentID))

	return &models.PartialPaymentSummary{
		InstallmentID:         installmentID,
		OriginalAmount:        originalAmount,
		TotalPaid:             toFloat(totalPaid),
		PendingAmount:         pending.InexactFloat64(),
		PaymentCount:          count,
		MaxPartialPayments:    models.MaxPartialPaymentsPerInstallment,
		CanMakeAnotherPayment: canPayAgain,
		Transactions:          txns,
	}, nil
}

// ProcessAdminApproval handles the three terminal admin decisions on a
// submitted transaction. The partial branch mutates the original down to the
// approved amount and creates a pending remainder, atomically.
func (s *PartialPaymentService) ProcessAdminApproval(ctx context.Context, req *models.EngineRequest) (*models.Transaction, error) {
	if req.TransactionID == "" {
		return nil, engineerrors.NewValidation("transactionId is required")
	}

	original, err := s.txns.GetByID(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	switch req.ApprovalType {
	case models.ApprovalReject:
		return s.txns.Reject(ctx, original.ID, req.RejectionReason)

	case models.ApprovalFull:
		return s.txns.Approve(ctx, original.ID, req.AdminNotes)

	case models.ApprovalPartial:
		if req.ApprovedAmount == nil {
			return nil, engineerrors.NewValidation("approvedAmount is required for partial approval")
		}
		approved := *req.ApprovedAmount
		if approved <= 0 || approved >= original.Amount {
			return nil, engineerrors.NewValidation(
				"approvedAmount must be between 0 and the original amount %.2f exclusive", original.Amount)
		}

		remainder := roundRupee(money(original.Amount).Sub(money(approved))).InexactFloat64()
		created, err := s.txns.SplitApprove(ctx, original, approved, remainder, req.AdminNotes)
		if err != nil {
			return nil, err
		}
		s.log.Info("split-approved transaction",
			zap.String("transaction_id", original.ID),
			zap.Float64("approved_amount", approved),
			zap.Float64("remainder_amount", remainder),
			zap.String("remainder_id", created.ID))
		return created, nil

	default:
		return nil, engineerrors.NewValidation("unknown approvalType %q", req.ApprovalType)
	}
}

// SetConfig flips the partial-payment toggle for one installment. Existing
// transactions are never affected.
func (s *PartialPaymentService) SetConfig(ctx context.Context, studentID, cohortID, installmentKey string, allowed bool) (*models.PartialPaymentConfig, error) {
	if studentID == "" || installmentKey == "" {
		return nil, engineerrors.NewValidation("studentId and installmentId are required")
	}
	return s.configs.SetAllowed(ctx, studentID, cohortID, installmentKey, allowed)
}

// GetConfig returns the student's toggles.
func (s *PartialPaymentService) GetConfig(ctx context.Context, studentID, cohortID string) (*models.PartialPaymentConfig, error) {
	return s.configs.Get(ctx, studentID, cohortID)
}
