package services

import (
	"testing"
	"time"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"
	"cohort-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// All reconciler tests run against a frozen clock.
var testToday = time.Date(2026, 3, 15, 10, 0, 0, 0, timeutil.IST)

func newTestReconciler() *StatusReconciler {
	r := NewStatusReconciler(zap.NewNop())
	r.now = func() time.Time { return testToday }
	return r
}

func installmentBreakdown(insts ...models.InstallmentView) *models.Breakdown {
	sem := models.SemesterView{SemesterNumber: 1, Instalments: insts}
	return &models.Breakdown{Semesters: []models.SemesterView{sem}}
}

func inst(id string, number int, payable float64, due string) models.InstallmentView {
	return models.InstallmentView{
		InstallmentID:     id,
		SemesterNumber:    1,
		InstallmentNumber: number,
		AmountPayable:     payable,
		PaymentDate:       due,
	}
}

func strPtr(s string) *string { return &s }

func txn(id string, amount float64, status models.VerificationStatus, installmentID string) *models.Transaction {
	t := &models.Transaction{ID: id, Amount: amount, VerificationStatus: status}
	if installmentID != "" {
		t.InstallmentID = strPtr(installmentID)
	}
	return t
}

func TestReconcileStatusPriorities(t *testing.T) {
	cases := []struct {
		name string
		view models.InstallmentView
		txns []*models.Transaction
		want models.InstallmentStatus
	}{
		{
			name: "fully waived",
			view: models.InstallmentView{InstallmentID: "1-1", SemesterNumber: 1, InstallmentNumber: 1, AmountPayable: 0, ScholarshipAmount: 1000},
			want: models.StatusWaived,
		},
		{
			name: "partially waived once payment activity starts",
			view: models.InstallmentView{InstallmentID: "1-1", SemesterNumber: 1, InstallmentNumber: 1, AmountPayable: 500, ScholarshipAmount: 500, PaymentDate: "2026-04-01"},
			txns: []*models.Transaction{txn("t1", 200, models.TxStatusApproved, "1-1")},
			want: models.StatusPartiallyWaived,
		},
		{
			name: "paid",
			view: inst("1-1", 1, 1000, "2026-04-01"),
			txns: []*models.Transaction{txn("t1", 1000, models.TxStatusApproved, "1-1")},
			want: models.StatusPaid,
		},
		{
			name: "paid even when overdue",
			view: inst("1-1", 1, 1000, "2026-01-01"),
			txns: []*models.Transaction{txn("t1", 1000, models.TxStatusApproved, "1-1")},
			want: models.StatusPaid,
		},
		{
			name: "verification pending covers the installment",
			view: inst("1-1", 1, 1000, "2026-04-01"),
			txns: []*models.Transaction{txn("t1", 1000, models.TxStatusPending, "1-1")},
			want: models.StatusVerificationPending,
		},
		{
			name: "partial amount in verification",
			view: inst("1-1", 1, 1000, "2026-04-01"),
			txns: []*models.Transaction{txn("t1", 400, models.TxStatusVerificationPending, "1-1")},
			want: models.StatusPartiallyPaidVerificationPending,
		},
		{
			name: "overdue",
			view: inst("1-1", 1, 1000, "2026-03-01"),
			want: models.StatusOverdue,
		},
		{
			name: "partially paid overdue",
			view: inst("1-1", 1, 1000, "2026-03-01"),
			txns: []*models.Transaction{txn("t1", 400, models.TxStatusApproved, "1-1")},
			want: models.StatusPartiallyPaidOverdue,
		},
		{
			name: "partially paid with days left",
			view: inst("1-1", 1, 1000, "2026-04-01"),
			txns: []*models.Transaction{txn("t1", 400, models.TxStatusApproved, "1-1")},
			want: models.StatusPartiallyPaidDaysLeft,
		},
		{
			name: "pending with ten or more days",
			view: inst("1-1", 1, 1000, "2026-03-25"),
			want: models.StatusPending10PlusDays,
		},
		{
			name: "pending inside ten days",
			view: inst("1-1", 1, 1000, "2026-03-20"),
			want: models.StatusPending,
		},
		{
			name: "pending without a due date",
			view: inst("1-1", 1, 1000, ""),
			want: models.StatusPending,
		},
		{
			name: "rejected transactions are invisible",
			view: inst("1-1", 1, 1000, "2026-03-20"),
			txns: []*models.Transaction{txn("t1", 1000, models.TxStatusRejected, "1-1")},
			want: models.StatusPending,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := installmentBreakdown(tc.view)
			_, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, tc.txns)
			require.NoError(t, err)
			assert.Equal(t, tc.want, b.Semesters[0].Instalments[0].Status)
		})
	}
}

func TestReconcileSetsPaidAndPendingAmounts(t *testing.T) {
	b := installmentBreakdown(inst("1-1", 1, 1000, "2026-04-01"))
	txns := []*models.Transaction{
		txn("t1", 400, models.TxStatusApproved, "1-1"),
		txn("t2", 100, models.TxStatusPartiallyApproved, "1-1"),
	}

	agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, txns)
	require.NoError(t, err)

	v := b.Semesters[0].Instalments[0]
	require.NotNil(t, v.AmountPaid)
	require.NotNil(t, v.AmountPending)
	assert.Equal(t, 500.0, *v.AmountPaid)
	assert.Equal(t, 500.0, *v.AmountPending)

	assert.Equal(t, 500.0, agg.TotalPaid)
	assert.Equal(t, 500.0, agg.TotalPending)
	assert.Equal(t, 1000.0, agg.TotalPayable)
}

func TestReconcileRejectsUnallocatedTransaction(t *testing.T) {
	b := installmentBreakdown(inst("1-1", 1, 1000, "2026-04-01"))
	general := &models.Transaction{ID: "t1", Amount: 500, VerificationStatus: models.TxStatusApproved}

	_, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, []*models.Transaction{general})
	require.Error(t, err)
	assert.True(t, engineerrors.IsValidation(err))
}

func TestReconcileSkipsRejectedUnallocatedTransaction(t *testing.T) {
	// Rejection wins over the allocation check: a rejected transaction is
	// ignored entirely, allocated or not.
	b := installmentBreakdown(inst("1-1", 1, 1000, "2026-04-01"))
	rejected := &models.Transaction{ID: "t1", Amount: 500, VerificationStatus: models.TxStatusRejected}

	_, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, []*models.Transaction{rejected})
	require.NoError(t, err)
}

func TestReconcileAllocatesBySemesterNumber(t *testing.T) {
	b := installmentBreakdown(
		inst("1-1", 1, 600, "2026-04-01"),
		inst("1-2", 2, 400, "2026-05-01"),
	)
	semOne := 1
	txns := []*models.Transaction{
		{ID: "t1", Amount: 600, VerificationStatus: models.TxStatusApproved, SemesterNumber: &semOne},
		{ID: "t2", Amount: 400, VerificationStatus: models.TxStatusApproved, SemesterNumber: &semOne},
	}

	agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, txns)
	require.NoError(t, err)

	// The first payment covers installment 1, so the second rolls to
	// installment 2.
	assert.Equal(t, models.StatusPaid, b.Semesters[0].Instalments[0].Status)
	assert.Equal(t, models.StatusPaid, b.Semesters[0].Instalments[1].Status)
	assert.Equal(t, models.StatusPaid, agg.Status)
}

func TestReconcileSkipsUnmatchableInstallmentID(t *testing.T) {
	b := installmentBreakdown(inst("1-1", 1, 1000, "2026-04-01"))
	txns := []*models.Transaction{txn("t1", 1000, models.TxStatusApproved, "9-9")}

	_, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, txns)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending10PlusDays, b.Semesters[0].Instalments[0].Status)
}

func TestReconcileOneShotThroughSyntheticInstallment(t *testing.T) {
	b := &models.Breakdown{
		OneShotPayment: &models.OneShotPayment{
			PaymentDate:   "2026-04-01",
			AmountPayable: 106200,
		},
	}
	txns := []*models.Transaction{txn("t1", 106200, models.TxStatusApproved, "1-1")}

	agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanOneShot, txns)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPaid, b.OneShotPayment.Status)
	require.NotNil(t, b.OneShotPayment.AmountPaid)
	assert.Equal(t, 106200.0, *b.OneShotPayment.AmountPaid)
	assert.Equal(t, models.StatusPaid, agg.Status)
}

func TestReconcileAggregatePriorities(t *testing.T) {
	semOne := func(views ...models.InstallmentView) *models.Breakdown {
		return installmentBreakdown(views...)
	}

	t.Run("verification outranks overdue", func(t *testing.T) {
		b := semOne(
			inst("1-1", 1, 1000, "2026-03-01"),
			inst("1-2", 2, 1000, "2026-04-01"),
		)
		txns := []*models.Transaction{txn("t1", 1000, models.TxStatusPending, "1-2")}
		agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, txns)
		require.NoError(t, err)
		assert.Equal(t, models.StatusVerificationPending, agg.Status)
	})

	t.Run("overdue outranks partial payment", func(t *testing.T) {
		b := semOne(
			inst("1-1", 1, 1000, "2026-03-01"),
			inst("1-2", 2, 1000, "2026-04-01"),
		)
		txns := []*models.Transaction{txn("t1", 400, models.TxStatusApproved, "1-2")}
		agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, txns)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOverdue, agg.Status)
	})

	t.Run("waived installments settle the schedule", func(t *testing.T) {
		waived := models.InstallmentView{InstallmentID: "1-1", SemesterNumber: 1, InstallmentNumber: 1, AmountPayable: 0, ScholarshipAmount: 1000}
		paid := inst("1-2", 2, 1000, "2026-04-01")
		b := semOne(waived, paid)
		txns := []*models.Transaction{txn("t1", 1000, models.TxStatusApproved, "1-2")}
		agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, txns)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, agg.Status)
	})

	t.Run("untouched schedule reports nearest due", func(t *testing.T) {
		b := semOne(
			inst("1-1", 1, 1000, "2026-03-20"),
			inst("1-2", 2, 1000, "2026-05-01"),
		)
		agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, agg.Status)
		require.NotNil(t, agg.CurrentInstallment)
		assert.Equal(t, "1-1", agg.CurrentInstallment.InstallmentID)
	})
}

func TestReconcileCurrentInstallmentPrefersPaid(t *testing.T) {
	b := installmentBreakdown(
		inst("1-1", 1, 1000, "2026-03-20"),
		inst("1-2", 2, 1000, "2026-05-01"),
	)
	txns := []*models.Transaction{txn("t1", 1000, models.TxStatusApproved, "1-2")}

	agg, err := newTestReconciler().Reconcile(b, models.PaymentPlanInstalmentWise, txns)
	require.NoError(t, err)

	require.NotNil(t, agg.CurrentInstallment)
	assert.Equal(t, "1-2", agg.CurrentInstallment.InstallmentID)
	assert.Equal(t, models.StatusPaid, agg.CurrentInstallment.Status)
}
