package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fardinGG/nocrashairlines/internal/application"
	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

// MockBookingService はBookingServiceInterfaceのモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) ListByPassenger(ctx context.Context, passengerID string) ([]*booking.Booking, error) {
	args := m.Called(ctx, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingService) ListByFlight(ctx context.Context, flightID string) ([]*booking.Booking, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *MockBookingService) Pay(ctx context.Context, input application.PayInput) (*payment.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID string) (*booking.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) Refund(ctx context.Context, bookingID, reason string) (*payment.Payment, error) {
	args := m.Called(ctx, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockBookingService) Reschedule(ctx context.Context, bookingID, newFlightID string) (*booking.Booking, error) {
	args := m.Called(ctx, bookingID, newFlightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingService) CheckIn(ctx context.Context, bookingID string) (*booking.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func sampleBooking(status booking.Status) *booking.Booking {
	now := time.Now()
	return &booking.Booking{
		ID:             "BK-TEST0001",
		PassengerID:    "PS-TEST0001",
		FlightID:       "FL-TEST0001",
		PassengerName:  "山田 太郎",
		PassengerEmail: "taro@example.com",
		SeatNumber:     "1A",
		TravelClass:    flight.ClassEconomy,
		TotalAmount:    35000,
		Status:         status,
		BookingDate:    now,
		LastModified:   now,
	}
}

func TestBookingHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に予約を作成できる", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, application.CreateBookingInput{
			PassengerID: "PS-TEST0001",
			FlightID:    "FL-TEST0001",
			TravelClass: flight.ClassEconomy,
		}).Return(sampleBooking(booking.StatusPending), nil)

		handler := NewBookingHandler(mockService)

		reqBody := `{"flight_id": "FL-TEST0001", "travel_class": "ECONOMY"}`
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Passenger-ID", "PS-TEST0001")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp BookingResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "BK-TEST0001", resp.ID)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "1A", resp.SeatNumber)

		mockService.AssertExpectations(t)
	})

	t.Run("搭乗者IDがない場合401", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)

		reqBody := `{"flight_id": "FL-TEST0001", "travel_class": "ECONOMY"}`
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		// X-Passenger-ID ヘッダーなし
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("空席がない場合409", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CreateBooking", mock.Anything, mock.AnythingOfType("application.CreateBookingInput")).
			Return(nil, flight.ErrNoSeatsAvailable)

		handler := NewBookingHandler(mockService)

		reqBody := `{"flight_id": "FL-TEST0001", "travel_class": "ECONOMY"}`
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Passenger-ID", "PS-TEST0001")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)

		mockService.AssertExpectations(t)
	})

	t.Run("不正なリクエストでエラー", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("invalid"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Passenger-ID", "PS-TEST0001")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestBookingHandler_Pay(t *testing.T) {
	e := NewTestEcho()

	newPayContext := func(bookingID string) (echo.Context, *httptest.ResponseRecorder) {
		reqBody := `{"method": "CREDIT_CARD", "card_last_four": "4242"}`
		req := httptest.NewRequest(http.MethodPost, "/bookings/"+bookingID+"/pay", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(bookingID)
		return c, rec
	}

	t.Run("正常に決済できる", func(t *testing.T) {
		mockService := new(MockBookingService)
		now := time.Now()
		expectedPayment := &payment.Payment{
			ID:                   "PAY-TEST0001",
			BookingID:            "BK-TEST0001",
			Amount:               35000,
			Method:               payment.MethodCreditCard,
			Status:               payment.StatusSuccess,
			TransactionReference: "TXN-123",
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		mockService.On("Pay", mock.Anything, application.PayInput{
			BookingID: "BK-TEST0001", Method: payment.MethodCreditCard, CardLastFour: "4242",
		}).Return(expectedPayment, nil)

		handler := NewBookingHandler(mockService)
		c, rec := newPayContext("BK-TEST0001")

		err := handler.Pay(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp PaymentResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "SUCCESS", resp.Status)
		assert.Equal(t, "TXN-123", resp.TransactionReference)

		mockService.AssertExpectations(t)
	})

	t.Run("決済済みの場合409", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("Pay", mock.Anything, mock.AnythingOfType("application.PayInput")).
			Return(nil, booking.ErrAlreadyPaid)

		handler := NewBookingHandler(mockService)
		c, _ := newPayContext("BK-TEST0001")

		err := handler.Pay(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("不正検出の場合422", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("Pay", mock.Anything, mock.AnythingOfType("application.PayInput")).
			Return(nil, payment.ErrFraudDetected)

		handler := NewBookingHandler(mockService)
		c, _ := newPayContext("BK-TEST0001")

		err := handler.Pay(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
	})

	t.Run("ゲートウェイ障害の場合502", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("Pay", mock.Anything, mock.AnythingOfType("application.PayInput")).
			Return(nil, payment.ErrGatewayFailure)

		handler := NewBookingHandler(mockService)
		c, _ := newPayContext("BK-TEST0001")

		err := handler.Pay(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, he.Code)
	})
}

func TestBookingHandler_Cancel(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にキャンセルできる", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("Cancel", mock.Anything, "BK-TEST0001").
			Return(sampleBooking(booking.StatusCancelled), nil)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/bookings/BK-TEST0001/cancel", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("BK-TEST0001")

		err := handler.Cancel(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BookingResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)

		mockService.AssertExpectations(t)
	})

	t.Run("予約が見つからない場合404", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("Cancel", mock.Anything, "nonexistent").Return(nil, booking.ErrBookingNotFound)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/bookings/nonexistent/cancel", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("nonexistent")

		err := handler.Cancel(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestBookingHandler_Refund(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に返金できる", func(t *testing.T) {
		mockService := new(MockBookingService)
		now := time.Now()
		refunded := &payment.Payment{
			ID:           "PAY-TEST0001",
			BookingID:    "BK-TEST0001",
			Amount:       35000,
			Method:       payment.MethodCreditCard,
			Status:       payment.StatusRefunded,
			RefundReason: "customer request",
			RefundDate:   &now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		mockService.On("Refund", mock.Anything, "BK-TEST0001", "customer request").Return(refunded, nil)

		handler := NewBookingHandler(mockService)

		reqBody := `{"reason": "customer request"}`
		req := httptest.NewRequest(http.MethodPost, "/bookings/BK-TEST0001/refund", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("BK-TEST0001")

		err := handler.Refund(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp PaymentResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "REFUNDED", resp.Status)

		mockService.AssertExpectations(t)
	})

	t.Run("キャンセルされていない予約は400", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("Refund", mock.Anything, "BK-TEST0001", "").Return(nil, booking.ErrBookingNotCancelled)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/bookings/BK-TEST0001/refund", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("BK-TEST0001")

		err := handler.Refund(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestBookingHandler_Reschedule(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にリスケジュールできる", func(t *testing.T) {
		mockService := new(MockBookingService)
		rescheduled := sampleBooking(booking.StatusRescheduled)
		rescheduled.FlightID = "FL-TEST0002"
		mockService.On("Reschedule", mock.Anything, "BK-TEST0001", "FL-TEST0002").Return(rescheduled, nil)

		handler := NewBookingHandler(mockService)

		reqBody := `{"new_flight_id": "FL-TEST0002"}`
		req := httptest.NewRequest(http.MethodPost, "/bookings/BK-TEST0001/reschedule", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("BK-TEST0001")

		err := handler.Reschedule(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BookingResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "RESCHEDULED", resp.Status)
		assert.Equal(t, "FL-TEST0002", resp.FlightID)

		mockService.AssertExpectations(t)
	})

	t.Run("変更先に空席がない場合409", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("Reschedule", mock.Anything, "BK-TEST0001", "FL-TEST0002").
			Return(nil, flight.ErrNoSeatsAvailable)

		handler := NewBookingHandler(mockService)

		reqBody := `{"new_flight_id": "FL-TEST0002"}`
		req := httptest.NewRequest(http.MethodPost, "/bookings/BK-TEST0001/reschedule", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("BK-TEST0001")

		err := handler.Reschedule(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestBookingHandler_CheckIn(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に搭乗手続きできる", func(t *testing.T) {
		mockService := new(MockBookingService)
		checkedIn := sampleBooking(booking.StatusConfirmed)
		checkedIn.CheckedIn = true
		checkedIn.BaggageTag = "BAG-TEST0001"
		mockService.On("CheckIn", mock.Anything, "BK-TEST0001").Return(checkedIn, nil)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/bookings/BK-TEST0001/check-in", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("BK-TEST0001")

		err := handler.CheckIn(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BookingResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.True(t, resp.CheckedIn)
		assert.Equal(t, "BAG-TEST0001", resp.BaggageTag)

		mockService.AssertExpectations(t)
	})

	t.Run("手続き済みの場合409", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("CheckIn", mock.Anything, "BK-TEST0001").Return(nil, booking.ErrAlreadyCheckedIn)

		handler := NewBookingHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/bookings/BK-TEST0001/check-in", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("BK-TEST0001")

		err := handler.CheckIn(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}
