package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fardinGG/nocrashairlines/internal/application"
	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	FlightID    string `json:"flight_id" validate:"required" example:"FL-550e8400"`
	TravelClass string `json:"travel_class" validate:"required" example:"ECONOMY"`
}

type PayBookingRequest struct {
	Method       string `json:"method" validate:"required" example:"CREDIT_CARD"`
	CardLastFour string `json:"card_last_four" example:"4242"`
}

type RefundBookingRequest struct {
	Reason string `json:"reason" example:"customer request"`
}

type RescheduleBookingRequest struct {
	NewFlightID string `json:"new_flight_id" validate:"required" example:"FL-660f9511"`
}

type BookingResponse struct {
	ID             string    `json:"id" example:"BK-A1B2C3D4"`
	PassengerID    string    `json:"passenger_id"`
	FlightID       string    `json:"flight_id"`
	PassengerName  string    `json:"passenger_name"`
	PassengerEmail string    `json:"passenger_email"`
	SeatNumber     string    `json:"seat_number" example:"12C"`
	TravelClass    string    `json:"travel_class" example:"ECONOMY"`
	TotalAmount    int64     `json:"total_amount" example:"35000"`
	Status         string    `json:"status" example:"PENDING"`
	PaymentID      *string   `json:"payment_id,omitempty"`
	CheckedIn      bool      `json:"checked_in"`
	BaggageTag     string    `json:"baggage_tag,omitempty"`
	BookingDate    time.Time `json:"booking_date"`
	LastModified   time.Time `json:"last_modified"`
}

type PaymentResponse struct {
	ID                   string     `json:"id" example:"PAY-A1B2C3D4"`
	BookingID            string     `json:"booking_id"`
	Amount               int64      `json:"amount" example:"35000"`
	Method               string     `json:"method" example:"CREDIT_CARD"`
	Status               string     `json:"status" example:"SUCCESS"`
	TransactionReference string     `json:"transaction_reference,omitempty"`
	FraudDetected        bool       `json:"fraud_detected"`
	RefundReason         string     `json:"refund_reason,omitempty"`
	RefundDate           *time.Time `json:"refund_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, PassengerID: b.PassengerID, FlightID: b.FlightID,
		PassengerName: b.PassengerName, PassengerEmail: b.PassengerEmail,
		SeatNumber: b.SeatNumber, TravelClass: string(b.TravelClass),
		TotalAmount: b.TotalAmount, Status: string(b.Status),
		PaymentID: b.PaymentID, CheckedIn: b.CheckedIn, BaggageTag: b.BaggageTag,
		BookingDate: b.BookingDate, LastModified: b.LastModified,
	}
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID: p.ID, BookingID: p.BookingID, Amount: p.Amount,
		Method: p.Method, Status: string(p.Status),
		TransactionReference: p.TransactionReference,
		FraudDetected:        p.FraudDetected,
		RefundReason:         p.RefundReason, RefundDate: p.RefundDate,
		CreatedAt: p.CreatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 座席をひとつ確保してPENDINGの予約を作成します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Passenger-ID header string true "搭乗者ID"
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "空席なし"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	passengerID := c.Request().Header.Get("X-Passenger-ID")
	if passengerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "搭乗者IDが必要です")
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		PassengerID: passengerID,
		FlightID:    req.FlightID,
		TravelClass: flight.TravelClass(req.TravelClass),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// ListByPassenger godoc
// @Summary 搭乗者の予約一覧を取得
// @Tags bookings
// @Produce json
// @Param X-Passenger-ID header string true "搭乗者ID"
// @Success 200 {array} BookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListByPassenger(c echo.Context) error {
	passengerID := c.Request().Header.Get("X-Passenger-ID")
	if passengerID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "搭乗者IDが必要です")
	}
	bookings, err := h.service.ListByPassenger(c.Request().Context(), passengerID)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Pay godoc
// @Summary 予約の決済を実行
// @Description PENDINGの予約に対して決済を実行し、成功すれば予約を確定します
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body PayBookingRequest true "決済情報"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "決済済み"
// @Failure 422 {object} map[string]string "不正検出"
// @Failure 502 {object} map[string]string "ゲートウェイ障害"
// @Router /bookings/{id}/pay [post]
func (h *BookingHandler) Pay(c echo.Context) error {
	var req PayBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.Pay(c.Request().Context(), application.PayInput{
		BookingID:    c.Param("id"),
		Method:       req.Method,
		CardLastFour: req.CardLastFour,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルし、座席を解放します
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	b, err := h.service.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Refund godoc
// @Summary 決済を返金
// @Description キャンセル済み予約の決済を返金します
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body RefundBookingRequest false "返金理由"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string "ゲートウェイ障害"
// @Router /bookings/{id}/refund [post]
func (h *BookingHandler) Refund(c echo.Context) error {
	var req RefundBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	p, err := h.service.Refund(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Reschedule godoc
// @Summary 予約を別フライトへ変更
// @Description 確定済み予約を別のフライトへ振り替え、座席を取り直します
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "予約ID"
// @Param request body RescheduleBookingRequest true "変更先フライト"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "変更先に空席なし"
// @Router /bookings/{id}/reschedule [post]
func (h *BookingHandler) Reschedule(c echo.Context) error {
	var req RescheduleBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.Reschedule(c.Request().Context(), c.Param("id"), req.NewFlightID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// CheckIn godoc
// @Summary 搭乗手続きを行う
// @Description 確定済み予約の搭乗手続きを行い、手荷物タグを発行します
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "手続き済み"
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c echo.Context) error {
	b, err := h.service.CheckIn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
