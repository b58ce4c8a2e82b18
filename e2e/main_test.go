package e2e

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fardinGG/nocrashairlines/internal/api"
	"github.com/fardinGG/nocrashairlines/internal/api/handler"
	"github.com/fardinGG/nocrashairlines/internal/api/middleware"
	"github.com/fardinGG/nocrashairlines/internal/application"
	"github.com/fardinGG/nocrashairlines/internal/gateway"
	"github.com/fardinGG/nocrashairlines/internal/infrastructure/memory"
	"github.com/fardinGG/nocrashairlines/internal/notification"
)

// TestServer はE2Eテスト用のサーバー
// インメモリリポジトリと決定的なモックゲートウェイを使い、外部依存なしで動作する
type TestServer struct {
	Echo *echo.Echo
}

// NewTestServer はテスト用サーバーを作成
func NewTestServer(t *testing.T, gatewayOpts ...gateway.Option) *TestServer {
	t.Helper()

	flightRepo := memory.NewFlightRepository()
	bookingRepo := memory.NewBookingRepository()
	paymentRepo := memory.NewPaymentRepository()
	passengerRepo := memory.NewPassengerRepository()

	opts := append([]gateway.Option{
		gateway.WithSuccessRate(1.0),
		gateway.WithLatency(0),
	}, gatewayOpts...)
	gw := gateway.NewMockGateway(opts...)

	bookingService := application.NewBookingService(
		bookingRepo, flightRepo, paymentRepo, passengerRepo, gw, notification.NewLogNotifier(), nil, nil)
	flightService := application.NewFlightService(flightRepo, nil)
	passengerService := application.NewPassengerService(passengerRepo)

	flightHandler := handler.NewFlightHandler(flightService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	passengerHandler := handler.NewPassengerHandler(passengerService)
	healthHandler := handler.NewHealthHandler()

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)

	e.GET("/health", healthHandler.Check)

	v1 := e.Group("/api/v1")

	v1.POST("/passengers", passengerHandler.Register)
	v1.GET("/passengers/:id", passengerHandler.GetByID)

	v1.POST("/flights", flightHandler.Create)
	v1.GET("/flights", flightHandler.List)
	v1.GET("/flights/search", flightHandler.Search)
	v1.GET("/flights/:id", flightHandler.GetByID)
	v1.PUT("/flights/:id/status", flightHandler.UpdateStatus)
	v1.GET("/flights/:id/available-seats", flightHandler.AvailableSeats)

	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.ListByPassenger)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.POST("/bookings/:id/pay", bookingHandler.Pay)
	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	v1.POST("/bookings/:id/refund", bookingHandler.Refund)
	v1.POST("/bookings/:id/reschedule", bookingHandler.Reschedule)
	v1.POST("/bookings/:id/check-in", bookingHandler.CheckIn)

	return &TestServer{Echo: e}
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}
