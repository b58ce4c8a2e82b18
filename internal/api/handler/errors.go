package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

// toHTTPError はドメインエラーをHTTPステータスに対応付ける
// 未知のエラーは内部サーバーエラーとして扱う
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, flight.ErrFlightNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, passenger.ErrPassengerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, flight.ErrFlightNumberTaken),
		errors.Is(err, passenger.ErrEmailTaken),
		errors.Is(err, flight.ErrNoSeatsAvailable),
		errors.Is(err, flight.ErrOptimisticLockConflict),
		errors.Is(err, booking.ErrAlreadyPaid),
		errors.Is(err, booking.ErrAlreadyCheckedIn):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, payment.ErrFraudDetected):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, payment.ErrGatewayFailure):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())

	case errors.Is(err, booking.ErrCompensationFailed),
		errors.Is(err, booking.ErrPersistenceFailure):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())

	case errors.Is(err, flight.ErrFlightNotBookable),
		errors.Is(err, flight.ErrInvalidTravelClass),
		errors.Is(err, flight.ErrInvalidStatus),
		errors.Is(err, flight.ErrIncompletePriceTable),
		errors.Is(err, booking.ErrBookingNotPayable),
		errors.Is(err, booking.ErrBookingNotCancellable),
		errors.Is(err, booking.ErrBookingNotCancelled),
		errors.Is(err, booking.ErrBookingNotReschedulable),
		errors.Is(err, booking.ErrRescheduleSameFlight),
		errors.Is(err, booking.ErrBookingNotCheckInable),
		errors.Is(err, payment.ErrPaymentNotRefundable),
		errors.Is(err, payment.ErrUnsupportedPaymentMethod):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
