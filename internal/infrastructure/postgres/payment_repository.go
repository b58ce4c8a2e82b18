package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

type paymentRow struct {
	ID                   string     `db:"id"`
	BookingID            string     `db:"booking_id"`
	PassengerID          string     `db:"passenger_id"`
	Amount               int64      `db:"amount"`
	Method               string     `db:"method"`
	Status               string     `db:"status"`
	TransactionReference string     `db:"transaction_reference"`
	CardLastFour         string     `db:"card_last_four"`
	FraudDetected        bool       `db:"fraud_detected"`
	RefundReason         string     `db:"refund_reason"`
	RefundDate           *time.Time `db:"refund_date"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

const paymentColumns = `id, booking_id, passenger_id, amount, method, status, transaction_reference, card_last_four, fraud_detected, refund_reason, refund_date, created_at, updated_at`

type PaymentRepository struct{ db *sqlx.DB }

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `INSERT INTO payments (id, booking_id, passenger_id, amount, method, status, transaction_reference, card_last_four, fraud_detected, refund_reason, refund_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.BookingID, p.PassengerID, p.Amount,
		p.Method, string(p.Status), p.TransactionReference, p.CardLastFour,
		p.FraudDetected, p.RefundReason, p.RefundDate, p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("決済作成に失敗: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	var row paymentRow
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("決済取得に失敗: %w", err)
	}
	return toPaymentEntity(&row), nil
}

// GetByBookingID は予約IDから最新の決済を取得する
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*payment.Payment, error) {
	var row paymentRow
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE booking_id = $1 ORDER BY created_at DESC LIMIT 1`, paymentColumns)
	if err := r.db.GetContext(ctx, &row, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("決済取得に失敗: %w", err)
	}
	return toPaymentEntity(&row), nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	query := `UPDATE payments SET status = $1, transaction_reference = $2, fraud_detected = $3, refund_reason = $4, refund_date = $5, updated_at = $6 WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query, string(p.Status), p.TransactionReference,
		p.FraudDetected, p.RefundReason, p.RefundDate, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("決済更新に失敗: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return payment.ErrPaymentNotFound
	}
	return nil
}

func toPaymentEntity(row *paymentRow) *payment.Payment {
	return &payment.Payment{
		ID: row.ID, BookingID: row.BookingID, PassengerID: row.PassengerID,
		Amount: row.Amount, Method: row.Method, Status: payment.Status(row.Status),
		TransactionReference: row.TransactionReference, CardLastFour: row.CardLastFour,
		FraudDetected: row.FraudDetected, RefundReason: row.RefundReason,
		RefundDate: row.RefundDate, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ payment.Repository = (*PaymentRepository)(nil)
