package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
)

// BookingRepository はインメモリの予約リポジトリ
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*booking.Booking
}

// NewBookingRepository は新しいBookingRepositoryを作成する
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[string]*booking.Booking)}
}

// Create は新しい予約を保存する
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[b.ID] = b.Clone()
	return nil
}

// GetByID はIDから予約を取得する
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return b.Clone(), nil
}

// Update は予約を更新する
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[b.ID]; !ok {
		return booking.ErrBookingNotFound
	}
	r.bookings[b.ID] = b.Clone()
	return nil
}

// ListByPassenger は搭乗者IDから予約一覧を取得する
func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*booking.Booking
	for _, b := range r.bookings {
		if b.PassengerID == passengerID {
			results = append(results, b.Clone())
		}
	}
	sortByBookingDate(results)
	return results, nil
}

// ListByFlight はフライトIDから予約一覧を取得する
func (r *BookingRepository) ListByFlight(ctx context.Context, flightID string) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*booking.Booking
	for _, b := range r.bookings {
		if b.FlightID == flightID {
			results = append(results, b.Clone())
		}
	}
	sortByBookingDate(results)
	return results, nil
}

// ListPendingBefore は指定時刻より前に作成された決済待ち予約を取得する
func (r *BookingRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*booking.Booking
	for _, b := range r.bookings {
		if b.Status == booking.StatusPending && b.BookingDate.Before(cutoff) {
			results = append(results, b.Clone())
		}
	}
	sortByBookingDate(results)
	return results, nil
}

func sortByBookingDate(bookings []*booking.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].BookingDate.Before(bookings[j].BookingDate)
	})
}

var _ booking.Repository = (*BookingRepository)(nil)
