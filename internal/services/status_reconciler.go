package services

import (
	"time"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"
	"cohort-backend/internal/timeutil"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatusReconciler matches recorded transactions to schedule entries and
// derives per-installment and aggregate payment statuses. Pure given its
// inputs; the clock is injectable for tests.
type StatusReconciler struct {
	log *zap.Logger
	now func() time.Time
}

func NewStatusReconciler(log *zap.Logger) *StatusReconciler {
	return &StatusReconciler{log: log, now: timeutil.Now}
}

type installmentLedger struct {
	paid           decimal.Decimal
	inVerification decimal.Decimal
}

// Reconcile annotates the breakdown's installments with statuses and paid/
// pending amounts, then derives the aggregate. A transaction carrying
// neither an installment id nor a semester number is a hard error: the
// engine never guesses an allocation.
func (r *StatusReconciler) Reconcile(b *models.Breakdown, plan models.PaymentPlan, txns []*models.Transaction) (*models.AggregateStatus, error) {
	views := r.scheduleViews(b, plan)

	ledgers := make(map[string]*installmentLedger, len(views))
	byKey := make(map[string]*models.InstallmentView, len(views))
	for _, v := range views {
		ledgers[v.InstallmentID] = &installmentLedger{}
		byKey[v.InstallmentID] = v
	}

	for _, t := range txns {
		if t.VerificationStatus == models.TxStatusRejected {
			continue
		}
		if !t.HasAllocation() {
			return nil, engineerrors.NewValidation(
				"transaction %s has no installment or semester allocation: general payments are not supported", t.ID)
		}

		view := r.allocate(t, byKey, views, ledgers)
		if view == nil {
			r.log.Warn("transaction does not match any schedule entry, skipping",
				zap.String("transaction_id", t.ID))
			continue
		}

		ledger := ledgers[view.InstallmentID]
		amount := money(t.Amount)
		switch t.VerificationStatus {
		case models.TxStatusApproved, models.TxStatusPartiallyApproved:
			ledger.paid = ledger.paid.Add(amount)
		case models.TxStatusPending, models.TxStatusVerificationPending:
			ledger.inVerification = ledger.inVerification.Add(amount)
		}
	}

	today := timeutil.StartOfDay(r.now())
	for _, v := range views {
		r.annotate(v, ledgers[v.InstallmentID], today)
	}

	agg := r.aggregate(views, ledgers, today)

	// One-shot plans were reconciled through a synthetic installment; copy
	// the outcome back onto the one-shot block.
	if plan == models.PaymentPlanOneShot && b.OneShotPayment != nil && len(views) == 1 {
		v := views[0]
		b.OneShotPayment.Status = v.Status
		b.OneShotPayment.AmountPaid = v.AmountPaid
		b.OneShotPayment.AmountPending = v.AmountPending
	}

	return agg, nil
}

// scheduleViews returns the mutable installment views to reconcile. A
// one-shot plan is normalized into a synthetic semester-1/installment-1
// entry so the state machine is uniform across plan types.
func (r *StatusReconciler) scheduleViews(b *models.Breakdown, plan models.PaymentPlan) []*models.InstallmentView {
	if plan == models.PaymentPlanOneShot && b.OneShotPayment != nil {
		return []*models.InstallmentView{{
			InstallmentID:     models.InstallmentKey(1, 1),
			SemesterNumber:    1,
			InstallmentNumber: 1,
			PaymentDate:       b.OneShotPayment.PaymentDate,
			BaseAmount:        b.OneShotPayment.BaseAmount,
			GSTAmount:         b.OneShotPayment.GSTAmount,
			ScholarshipAmount: b.OneShotPayment.ScholarshipAmount,
			DiscountAmount:    b.OneShotPayment.DiscountAmount,
			AmountPayable:     b.OneShotPayment.AmountPayable,
		}}
	}

	var views []*models.InstallmentView
	for si := range b.Semesters {
		sem := &b.Semesters[si]
		for ii := range sem.Instalments {
			views = append(views, &sem.Instalments[ii])
		}
	}
	return views
}

// allocate matches one transaction to a schedule entry: exact installment id
// first, then the earliest not-yet-covered installment of its semester.
func (r *StatusReconciler) allocate(t *models.Transaction, byKey map[string]*models.InstallmentView, views []*models.InstallmentView, ledgers map[string]*installmentLedger) *models.InstallmentView {
	if t.InstallmentID != nil && *t.InstallmentID != "" {
		if v, ok := byKey[*t.InstallmentID]; ok {
			return v
		}
	}

	if t.SemesterNumber == nil {
		return nil
	}

	var last *models.InstallmentView
	for _, v := range views {
		if v.SemesterNumber != *t.SemesterNumber {
			continue
		}
		last = v
		ledger := ledgers[v.InstallmentID]
		covered := ledger.paid.Add(ledger.inVerification)
		if covered.LessThan(money(v.AmountPayable)) {
			return v
		}
	}
	return last
}

// annotate runs the per-installment state machine. Cases are ordered from
// highest to lowest precedence; the first match wins.
func (r *StatusReconciler) annotate(v *models.InstallmentView, ledger *installmentLedger, today time.Time) {
	payable := money(v.AmountPayable)
	scholarship := money(v.ScholarshipAmount)
	gross := payable.Add(scholarship)
	paid := ledger.paid
	inVerification := ledger.inVerification

	due, hasDue := parseDueDate(v.PaymentDate)

	var status models.InstallmentStatus
	switch {
	case payable.LessThanOrEqual(decimal.Zero) || scholarship.GreaterThanOrEqual(gross):
		status = models.StatusWaived
	case scholarship.IsPositive() && paid.Add(inVerification).IsPositive() && paid.LessThan(payable):
		status = models.StatusPartiallyWaived
	case paid.GreaterThanOrEqual(payable):
		status = models.StatusPaid
	case inVerification.IsPositive() && paid.Add(inVerification).GreaterThanOrEqual(payable):
		status = models.StatusVerificationPending
	case inVerification.IsPositive():
		status = models.StatusPartiallyPaidVerificationPending
	case hasDue && due.Before(today):
		if paid.IsPositive() {
			status = models.StatusPartiallyPaidOverdue
		} else {
			status = models.StatusOverdue
		}
	case paid.IsPositive():
		status = models.StatusPartiallyPaidDaysLeft
	case hasDue && daysBetween(today, due) >= 10:
		status = models.StatusPending10PlusDays
	default:
		status = models.StatusPending
	}

	v.Status = status
	paidF := toFloat(paid)
	pendingF := clampZero(roundRupee(payable.Sub(paid))).InexactFloat64()
	v.AmountPaid = &paidF
	v.AmountPending = &pendingF
}

func (r *StatusReconciler) aggregate(views []*models.InstallmentView, ledgers map[string]*installmentLedger, today time.Time) *models.AggregateStatus {
	agg := &models.AggregateStatus{}

	allSettled := true
	anyVerification := false
	anyOverdue := false
	anyPaidSomething := false
	totalPaid := decimal.Zero
	totalPending := decimal.Zero
	totalPayable := decimal.Zero

	for _, v := range views {
		ledger := ledgers[v.InstallmentID]
		totalPaid = totalPaid.Add(ledger.paid)
		totalPayable = totalPayable.Add(money(v.AmountPayable))
		if v.AmountPending != nil {
			totalPending = totalPending.Add(money(*v.AmountPending))
		}

		switch v.Status {
		case models.StatusPaid, models.StatusWaived:
		default:
			allSettled = false
		}
		switch v.Status {
		case models.StatusVerificationPending, models.StatusPartiallyPaidVerificationPending:
			anyVerification = true
		case models.StatusOverdue, models.StatusPartiallyPaidOverdue:
			anyOverdue = true
		}
		if v.Status == models.StatusPaid || ledger.paid.IsPositive() {
			anyPaidSomething = true
		}
	}

	switch {
	case allSettled && !anyVerification:
		agg.Status = models.StatusPaid
	case anyVerification:
		agg.Status = models.StatusVerificationPending
	case anyOverdue:
		agg.Status = models.StatusOverdue
	case anyPaidSomething:
		agg.Status = models.StatusPartiallyPaidDaysLeft
	default:
		agg.Status = r.nearestDueStatus(views, today)
	}

	agg.TotalPaid = toFloat(totalPaid)
	agg.TotalPending = toFloat(totalPending)
	agg.TotalPayable = toFloat(totalPayable)
	agg.CurrentInstallment = currentInstallment(views)
	return agg
}

func (r *StatusReconciler) nearestDueStatus(views []*models.InstallmentView, today time.Time) models.InstallmentStatus {
	nearest := -1
	for _, v := range views {
		switch v.Status {
		case models.StatusPaid, models.StatusWaived:
			continue
		}
		due, ok := parseDueDate(v.PaymentDate)
		if !ok {
			continue
		}
		days := daysBetween(today, due)
		if nearest < 0 || days < nearest {
			nearest = days
		}
	}
	if nearest >= 10 {
		return models.StatusPending10PlusDays
	}
	return models.StatusPending
}

// currentInstallment prioritizes any fully-paid installment; otherwise the
// pending installment with the earliest due date.
func currentInstallment(views []*models.InstallmentView) *models.CurrentInstallment {
	for _, v := range views {
		if v.Status == models.StatusPaid {
			return &models.CurrentInstallment{
				InstallmentID: v.InstallmentID,
				Status:        v.Status,
				PaymentDate:   v.PaymentDate,
			}
		}
	}

	var earliest *models.InstallmentView
	var earliestDue time.Time
	for _, v := range views {
		switch v.Status {
		case models.StatusPaid, models.StatusWaived:
			continue
		}
		due, ok := parseDueDate(v.PaymentDate)
		if !ok {
			if earliest == nil {
				earliest = v
			}
			continue
		}
		if earliest == nil || earliestDue.IsZero() || due.Before(earliestDue) {
			earliest = v
			earliestDue = due
		}
	}

	if earliest == nil {
		return nil
	}
	return &models.CurrentInstallment{
		InstallmentID: earliest.InstallmentID,
		Status:        earliest.Status,
		PaymentDate:   earliest.PaymentDate,
	}
}

func parseDueDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(timeutil.DateLayout, value, timeutil.IST)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
