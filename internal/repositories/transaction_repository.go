package repositories

import (
	"context"
	"errors"
	"fmt"

	"cohort-backend/internal/engineerrors"
	"cohort-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionColumns = `
	id, student_id, cohort_id, amount, verification_status, installment_id,
	semester_number, partial_payment_sequence, COALESCE(admin_notes, ''),
	COALESCE(rejection_reason, ''), created_at, updated_at
`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := row.Scan(
		&t.ID,
		&t.StudentID,
		&t.CohortID,
		&t.Amount,
		&t.VerificationStatus,
		&t.InstallmentID,
		&t.SemesterNumber,
		&t.PartialPaymentSequence,
		&t.AdminNotes,
		&t.RejectionReason,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) collect(rows pgx.Rows) ([]*models.Transaction, error) {
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE id = $1`

	t, err := scanTransaction(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engineerrors.NewNotFound("transaction %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListForStudent returns every transaction of a student in a cohort, ordered
// by schedule position then submission order.
func (r *TransactionRepository) ListForStudent(ctx context.Context, cohortID, studentID string) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE cohort_id = $1 AND student_id = $2
		ORDER BY semester_number NULLS LAST, installment_id NULLS LAST, partial_payment_sequence, created_at
	`

	rows, err := r.DB.Query(ctx, query, cohortID, studentID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListForInstallment returns the sequenced partial payments of one
// installment, oldest first.
func (r *TransactionRepository) ListForInstallment(ctx context.Context, studentID, installmentID string) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE student_id = $1 AND installment_id = $2
		ORDER BY partial_payment_sequence, created_at
	`

	rows, err := r.DB.Query(ctx, query, studentID, installmentID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// Approve marks a transaction approved as-is.
func (r *TransactionRepository) Approve(ctx context.Context, id, adminNotes string) (*models.Transaction, error) {
	query := `
		UPDATE payment_transactions
		SET verification_status = 'approved', admin_notes = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.DB.QueryRow(ctx, query, id, adminNotes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engineerrors.NewNotFound("transaction %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Reject marks a transaction rejected with a reason. Terminal.
func (r *TransactionRepository) Reject(ctx context.Context, id, reason string) (*models.Transaction, error) {
	query := `
		UPDATE payment_transactions
		SET verification_status = 'rejected', rejection_reason = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.DB.QueryRow(ctx, query, id, reason))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engineerrors.NewNotFound("transaction %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SplitApprove atomically mutates the original transaction down to the
// approved amount and inserts a pending remainder with the next partial
// sequence. The update is conditional on the transaction still holding its
// prior verification status; losing that race returns a ConcurrencyConflict
// so two concurrent admin approvals cannot double-split the same payment.
func (r *TransactionRepository) SplitApprove(ctx context.Context, original *models.Transaction, approvedAmount, remainderAmount float64, adminNotes string) (*models.Transaction, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin split-approval transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE payment_transactions
		SET amount = $1, verification_status = 'partially_approved', admin_notes = $2, updated_at = NOW()
		WHERE id = $3 AND verification_status = $4
	`

	tag, err := tx.Exec(ctx, updateQuery, approvedAmount, adminNotes, original.ID, original.VerificationStatus)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, engineerrors.NewConcurrencyConflict(
			"transaction %s was modified by a concurrent approval", original.ID)
	}

	insertQuery := `
		INSERT INTO payment_transactions (
			id, student_id, cohort_id, amount, verification_status,
			installment_id, semester_number, partial_payment_sequence
		)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7)
		RETURNING ` + transactionColumns

	remainder, err := scanTransaction(tx.QueryRow(ctx, insertQuery,
		uuid.NewString(),
		original.StudentID,
		original.CohortID,
		remainderAmount,
		original.InstallmentID,
		original.SemesterNumber,
		original.PartialPaymentSequence+1,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit split-approval: %w", err)
	}

	return remainder, nil
}
