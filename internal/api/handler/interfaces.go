package handler

import (
	"context"
	"time"

	"github.com/fardinGG/nocrashairlines/internal/application"
	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

// FlightServiceInterface はフライトサービスのインターフェース
type FlightServiceInterface interface {
	CreateFlight(ctx context.Context, input application.CreateFlightInput) (*flight.Flight, error)
	GetFlight(ctx context.Context, id string) (*flight.Flight, error)
	GetFlightByNumber(ctx context.Context, flightNumber string) (*flight.Flight, error)
	SearchFlights(ctx context.Context, origin, destination string, date time.Time) ([]*flight.Flight, error)
	ListFlights(ctx context.Context, limit, offset int) ([]*flight.Flight, error)
	UpdateFlightStatus(ctx context.Context, id string, status flight.Status) (*flight.Flight, error)
	CountAvailableSeats(ctx context.Context, flightID string) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]*booking.Booking, error)
	ListByFlight(ctx context.Context, flightID string) ([]*booking.Booking, error)
	Pay(ctx context.Context, input application.PayInput) (*payment.Payment, error)
	Cancel(ctx context.Context, bookingID string) (*booking.Booking, error)
	Refund(ctx context.Context, bookingID, reason string) (*payment.Payment, error)
	Reschedule(ctx context.Context, bookingID, newFlightID string) (*booking.Booking, error)
	CheckIn(ctx context.Context, bookingID string) (*booking.Booking, error)
}

// PassengerServiceInterface は搭乗者サービスのインターフェース
type PassengerServiceInterface interface {
	RegisterPassenger(ctx context.Context, input application.RegisterPassengerInput) (*passenger.Passenger, error)
	GetPassenger(ctx context.Context, id string) (*passenger.Passenger, error)
}
