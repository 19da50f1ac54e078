package services

import (
	"context"
	"time"

	"cohort-backend/internal/cache"
	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/metrics"
	"cohort-backend/internal/models"

	"go.uber.org/zap"
)

type cohortStore interface {
	GetByID(ctx context.Context, id string) (*models.Cohort, error)
}

// PaymentEngineService dispatches the single action-based contract across
// the engine components. Every action is a stateless, short-lived
// computation; nothing is shared across requests.
type PaymentEngineService struct {
	structures   *FeeStructureResolver
	scholarships *ScholarshipResolver
	calculator   *BreakdownCalculator
	scheduler    *DateScheduler
	reconciler   *StatusReconciler
	partials     *PartialPaymentService
	cohorts      cohortStore
	txns         transactionStore
	cacheTTL     time.Duration
	log          *zap.Logger
}

func NewPaymentEngineService(
	structures *FeeStructureResolver,
	scholarships *ScholarshipResolver,
	calculator *BreakdownCalculator,
	scheduler *DateScheduler,
	reconciler *StatusReconciler,
	partials *PartialPaymentService,
	cohorts cohortStore,
	txns transactionStore,
	cacheTTL time.Duration,
	log *zap.Logger,
) *PaymentEngineService {
	return &PaymentEngineService{
		structures:   structures,
		scholarships: scholarships,
		calculator:   calculator,
		scheduler:    scheduler,
		reconciler:   reconciler,
		partials:     partials,
		cohorts:      cohorts,
		txns:         txns,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

// Execute runs one action. Fatal errors come back as errors from the
// taxonomy; the handler maps them onto the {success:false, error} envelope.
func (s *PaymentEngineService) Execute(ctx context.Context, req *models.EngineRequest) (*models.EngineResponse, error) {
	if req.CohortID == "" {
		return nil, engineerrors.NewValidation("cohortId is required")
	}

	switch req.Action {
	case models.ActionBreakdown:
		return s.breakdown(ctx, req)
	case models.ActionStatus:
		return s.status(ctx, req, false)
	case models.ActionFull:
		return s.status(ctx, req, true)
	case models.ActionPartialCalculation:
		return s.partialCalculation(ctx, req)
	case models.ActionAdminPartialApproval:
		return s.adminPartialApproval(ctx, req)
	case models.ActionPartialConfig:
		return s.partialConfig(ctx, req)
	default:
		return nil, engineerrors.NewValidation("unknown action %q", req.Action)
	}
}

// compute resolves configuration, builds the schedule and assigns dates.
// It is the shared front half of every calculation action.
func (s *PaymentEngineService) compute(ctx context.Context, req *models.EngineRequest) (*models.Breakdown, *models.FeeStructure, error) {
	if req.PaymentPlan == "" {
		return nil, nil, engineerrors.NewValidation("paymentPlan is required")
	}

	fs, err := s.structures.Resolve(ctx, req.CohortID, req.StudentID, req.FeeStructureData)
	if err != nil {
		return nil, nil, err
	}

	cohort, err := s.cohorts.GetByID(ctx, req.CohortID)
	if err != nil {
		return nil, nil, err
	}

	scholarship := s.scholarships.Resolve(ctx, req.ScholarshipRef(), req.AdditionalDiscountPercentage, fs.TotalProgramFee)

	b, err := s.calculator.Calculate(fs, req.PaymentPlan, scholarship)
	if err != nil {
		return nil, nil, err
	}

	dates := s.scheduler.Resolve(fs, req.PaymentPlan, req.CustomDates, cohort.StartDate)
	s.scheduler.Apply(b, dates)

	return b, fs, nil
}

func (s *PaymentEngineService) breakdown(ctx context.Context, req *models.EngineRequest) (*models.EngineResponse, error) {
	// Preview structures are not persisted, so their results are not
	// addressable by the cache key.
	cacheable := req.FeeStructureData == nil
	var key string
	if cacheable {
		key = cache.BreakdownKey(req)
		if cached, ok := cache.GetBreakdown(ctx, key); ok {
			metrics.BreakdownComputationsTotal.WithLabelValues(string(req.PaymentPlan), "hit").Inc()
			return &models.EngineResponse{Success: true, Breakdown: cached}, nil
		}
	}
	metrics.BreakdownComputationsTotal.WithLabelValues(string(req.PaymentPlan), "miss").Inc()

	b, fs, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	if cacheable {
		cache.PutBreakdown(ctx, key, b, s.cacheTTL)
	}

	return &models.EngineResponse{Success: true, Breakdown: b, FeeStructure: fs}, nil
}

func (s *PaymentEngineService) status(ctx context.Context, req *models.EngineRequest, includeBreakdown bool) (*models.EngineResponse, error) {
	if req.StudentID == "" {
		return nil, engineerrors.NewValidation("studentId is required for status reconciliation")
	}

	b, fs, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	txns, err := s.txns.ListForStudent(ctx, req.CohortID, req.StudentID)
	if err != nil {
		return nil, err
	}

	agg, err := s.reconciler.Reconcile(b, req.PaymentPlan, txns)
	if err != nil {
		return nil, err
	}

	resp := &models.EngineResponse{Success: true, Aggregate: agg, FeeStructure: fs}
	if includeBreakdown {
		resp.Breakdown = b
	}
	return resp, nil
}

func (s *PaymentEngineService) partialCalculation(ctx context.Context, req *models.EngineRequest) (*models.EngineResponse, error) {
	if req.StudentID == "" {
		return nil, engineerrors.NewValidation("studentId is required")
	}
	if req.InstallmentID == "" {
		return nil, engineerrors.NewValidation("installmentId is required")
	}

	b, _, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	payable, ok := findInstallmentPayable(b, req.PaymentPlan, req.InstallmentID)
	if !ok {
		return nil, engineerrors.NewNotFound("installment %s not found in schedule", req.InstallmentID)
	}

	summary, err := s.partials.Summary(ctx, req.StudentID, req.CohortID, req.InstallmentID, payable)
	if err != nil {
		return nil, err
	}

	return &models.EngineResponse{Success: true, PartialSummary: summary}, nil
}

func (s *PaymentEngineService) adminPartialApproval(ctx context.Context, req *models.EngineRequest) (*models.EngineResponse, error) {
	t, err := s.partials.ProcessAdminApproval(ctx, req)
	if err != nil {
		metrics.PartialApprovalsTotal.WithLabelValues(string(req.ApprovalType), "error").Inc()
		return nil, err
	}
	metrics.PartialApprovalsTotal.WithLabelValues(string(req.ApprovalType), "ok").Inc()
	return &models.EngineResponse{Success: true, Transaction: t}, nil
}

func (s *PaymentEngineService) partialConfig(ctx context.Context, req *models.EngineRequest) (*models.EngineResponse, error) {
	if req.AllowPartialPayments == nil {
		cfg, err := s.partials.GetConfig(ctx, req.StudentID, req.CohortID)
		if err != nil {
			return nil, err
		}
		return &models.EngineResponse{Success: true, PartialConfig: cfg}, nil
	}

	cfg, err := s.partials.SetConfig(ctx, req.StudentID, req.CohortID, req.InstallmentID, *req.AllowPartialPayments)
	if err != nil {
		return nil, err
	}
	return &models.EngineResponse{Success: true, PartialConfig: cfg}, nil
}

// ComputeForStatement produces the breakdown plus cohort metadata for
// statement rendering.
func (s *PaymentEngineService) ComputeForStatement(ctx context.Context, req *models.EngineRequest) (*models.Breakdown, *models.Cohort, error) {
	if req.CohortID == "" {
		return nil, nil, engineerrors.NewValidation("cohortId is required")
	}

	cohort, err := s.cohorts.GetByID(ctx, req.CohortID)
	if err != nil {
		return nil, nil, err
	}

	b, _, err := s.compute(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return b, cohort, nil
}

// findInstallmentPayable looks an installment up by its composite key. A
// one-shot schedule answers only for the synthetic 1-1 entry.
func findInstallmentPayable(b *models.Breakdown, plan models.PaymentPlan, installmentID string) (float64, bool) {
	if plan == models.PaymentPlanOneShot {
		if b.OneShotPayment != nil && installmentID == models.InstallmentKey(1, 1) {
			return b.OneShotPayment.AmountPayable, true
		}
		return 0, false
	}

	for _, sem := range b.Semesters {
		for _, inst := range sem.Instalments {
			if inst.InstallmentID == installmentID {
				return inst.AmountPayable, true
			}
		}
	}
	return 0, false
}
