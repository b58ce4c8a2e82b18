package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
)

type bookingRow struct {
	ID             string    `db:"id"`
	PassengerID    string    `db:"passenger_id"`
	FlightID       string    `db:"flight_id"`
	PassengerName  string    `db:"passenger_name"`
	PassengerEmail string    `db:"passenger_email"`
	PassengerPhone string    `db:"passenger_phone"`
	PassportNumber string    `db:"passport_number"`
	SeatNumber     string    `db:"seat_number"`
	TravelClass    string    `db:"travel_class"`
	TotalAmount    int64     `db:"total_amount"`
	Status         string    `db:"status"`
	PaymentID      *string   `db:"payment_id"`
	CheckedIn      bool      `db:"checked_in"`
	BaggageTag     string    `db:"baggage_tag"`
	BookingDate    time.Time `db:"booking_date"`
	LastModified   time.Time `db:"last_modified"`
}

const bookingColumns = `id, passenger_id, flight_id, passenger_name, passenger_email, passenger_phone, passport_number, seat_number, travel_class, total_amount, status, payment_id, checked_in, baggage_tag, booking_date, last_modified`

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `INSERT INTO bookings (id, passenger_id, flight_id, passenger_name, passenger_email, passenger_phone, passport_number, seat_number, travel_class, total_amount, status, payment_id, checked_in, baggage_tag, booking_date, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	if _, err := r.db.ExecContext(ctx, query, b.ID, b.PassengerID, b.FlightID,
		b.PassengerName, b.PassengerEmail, b.PassengerPhone, b.PassportNumber,
		b.SeatNumber, string(b.TravelClass), b.TotalAmount, string(b.Status),
		b.PaymentID, b.CheckedIn, b.BaggageTag, b.BookingDate, b.LastModified); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	var row bookingRow
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return toBookingEntity(&row), nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	query := `UPDATE bookings SET flight_id = $1, seat_number = $2, status = $3, payment_id = $4, checked_in = $5, baggage_tag = $6, last_modified = $7 WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query, b.FlightID, b.SeatNumber, string(b.Status),
		b.PaymentID, b.CheckedIn, b.BaggageTag, b.LastModified, b.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*booking.Booking, error) {
	return r.selectWhere(ctx, "passenger_id = $1", passengerID)
}

func (r *BookingRepository) ListByFlight(ctx context.Context, flightID string) ([]*booking.Booking, error) {
	return r.selectWhere(ctx, "flight_id = $1", flightID)
}

func (r *BookingRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	return r.selectWhere(ctx, "status = 'PENDING' AND booking_date < $1", cutoff)
}

func (r *BookingRepository) selectWhere(ctx context.Context, where string, arg any) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s ORDER BY booking_date`, bookingColumns, where)
	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i := range rows {
		result[i] = toBookingEntity(&rows[i])
	}
	return result, nil
}

func toBookingEntity(row *bookingRow) *booking.Booking {
	return &booking.Booking{
		ID: row.ID, PassengerID: row.PassengerID, FlightID: row.FlightID,
		PassengerName: row.PassengerName, PassengerEmail: row.PassengerEmail,
		PassengerPhone: row.PassengerPhone, PassportNumber: row.PassportNumber,
		SeatNumber: row.SeatNumber, TravelClass: flight.TravelClass(row.TravelClass),
		TotalAmount: row.TotalAmount, Status: booking.Status(row.Status),
		PaymentID: row.PaymentID, CheckedIn: row.CheckedIn, BaggageTag: row.BaggageTag,
		BookingDate: row.BookingDate, LastModified: row.LastModified,
	}
}

var _ booking.Repository = (*BookingRepository)(nil)
