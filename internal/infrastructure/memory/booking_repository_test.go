package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

func newTestBooking(id, passengerID, flightID string) *booking.Booking {
	b := booking.NewBooking(passengerID, flightID, booking.ContactSnapshot{
		Name:  "田中太郎",
		Email: "tanaka@example.com",
	}, "1A", flight.ClassEconomy, 350_00)
	b.ID = id
	return b
}

func TestBookingRepository_CreateAndGet(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b := newTestBooking("BK-1", "PS-1", "FL-1")
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, "BK-1")
	require.NoError(t, err)
	assert.Equal(t, "PS-1", got.PassengerID)

	_, err = repo.GetByID(ctx, "BK-NOBODY")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestBookingRepository_CloneIsolation(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b := newTestBooking("BK-1", "PS-1", "FL-1")
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, "BK-1")
	require.NoError(t, err)
	require.NoError(t, got.Cancel())

	stored, err := repo.GetByID(ctx, "BK-1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, stored.Status)
}

func TestBookingRepository_ListByPassengerAndFlight(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestBooking("BK-1", "PS-1", "FL-1")))
	require.NoError(t, repo.Create(ctx, newTestBooking("BK-2", "PS-1", "FL-2")))
	require.NoError(t, repo.Create(ctx, newTestBooking("BK-3", "PS-2", "FL-1")))

	byPassenger, err := repo.ListByPassenger(ctx, "PS-1")
	require.NoError(t, err)
	assert.Len(t, byPassenger, 2)

	byFlight, err := repo.ListByFlight(ctx, "FL-1")
	require.NoError(t, err)
	assert.Len(t, byFlight, 2)
}

func TestBookingRepository_ListPendingBefore(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	stale := newTestBooking("BK-1", "PS-1", "FL-1")
	stale.BookingDate = time.Now().Add(-30 * time.Minute)
	fresh := newTestBooking("BK-2", "PS-1", "FL-1")
	confirmed := newTestBooking("BK-3", "PS-1", "FL-1")
	confirmed.BookingDate = time.Now().Add(-30 * time.Minute)
	require.NoError(t, confirmed.Confirm("PAY-1"))

	for _, b := range []*booking.Booking{stale, fresh, confirmed} {
		require.NoError(t, repo.Create(ctx, b))
	}

	results, err := repo.ListPendingBefore(ctx, time.Now().Add(-15*time.Minute))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BK-1", results[0].ID)
}

func TestPaymentRepository_GetByBookingID_ReturnsLatest(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	first := payment.NewPayment("BK-1", "PS-1", 350_00, payment.MethodCreditCard)
	first.ID = "PAY-1"
	require.NoError(t, first.MarkFailed())
	second := payment.NewPayment("BK-1", "PS-1", 350_00, payment.MethodCreditCard)
	second.ID = "PAY-2"

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.GetByBookingID(ctx, "BK-1")
	require.NoError(t, err)
	assert.Equal(t, "PAY-2", got.ID)

	_, err = repo.GetByBookingID(ctx, "BK-NOBODY")
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}
