package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fardinGG/nocrashairlines/internal/application"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
)

type FlightHandler struct {
	service FlightServiceInterface
}

func NewFlightHandler(s FlightServiceInterface) *FlightHandler {
	return &FlightHandler{service: s}
}

type CreateFlightRequest struct {
	FlightNumber  string           `json:"flight_number" validate:"required" example:"NC101"`
	Origin        string           `json:"origin" validate:"required" example:"HND"`
	Destination   string           `json:"destination" validate:"required" example:"CTS"`
	DepartureTime time.Time        `json:"departure_time" validate:"required"`
	ArrivalTime   time.Time        `json:"arrival_time" validate:"required"`
	AircraftType  string           `json:"aircraft_type" example:"A350-900"`
	Gate          string           `json:"gate" example:"22"`
	TotalSeats    int              `json:"total_seats" validate:"required,min=1" example:"180"`
	ClassPrices   map[string]int64 `json:"class_prices" validate:"required"`
}

type UpdateFlightStatusRequest struct {
	Status string `json:"status" validate:"required" example:"DELAYED"`
}

type FlightResponse struct {
	ID             string           `json:"id"`
	FlightNumber   string           `json:"flight_number" example:"NC101"`
	Origin         string           `json:"origin" example:"HND"`
	Destination    string           `json:"destination" example:"CTS"`
	DepartureTime  time.Time        `json:"departure_time"`
	ArrivalTime    time.Time        `json:"arrival_time"`
	AircraftType   string           `json:"aircraft_type,omitempty"`
	Gate           string           `json:"gate,omitempty"`
	TotalSeats     int              `json:"total_seats"`
	AvailableSeats int              `json:"available_seats"`
	ClassPrices    map[string]int64 `json:"class_prices"`
	Status         string           `json:"status" example:"SCHEDULED"`
}

type AvailableSeatsResponse struct {
	FlightID       string `json:"flight_id"`
	AvailableSeats int    `json:"available_seats"`
}

func toFlightResponse(f *flight.Flight) FlightResponse {
	prices := make(map[string]int64, len(f.ClassPrices))
	for class, price := range f.ClassPrices {
		prices[string(class)] = price
	}
	return FlightResponse{
		ID: f.ID, FlightNumber: f.FlightNumber,
		Origin: f.Origin, Destination: f.Destination,
		DepartureTime: f.DepartureTime, ArrivalTime: f.ArrivalTime,
		AircraftType: f.AircraftType, Gate: f.Gate,
		TotalSeats: f.TotalSeats, AvailableSeats: f.AvailableSeats,
		ClassPrices: prices, Status: string(f.Status),
	}
}

// Create godoc
// @Summary フライトを登録
// @Description 新しいフライトを登録します
// @Tags flights
// @Accept json
// @Produce json
// @Param request body CreateFlightRequest true "フライト情報"
// @Success 201 {object} FlightResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "同じ便名が既に存在"
// @Router /flights [post]
func (h *FlightHandler) Create(c echo.Context) error {
	var req CreateFlightRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	prices := make(map[flight.TravelClass]int64, len(req.ClassPrices))
	for class, price := range req.ClassPrices {
		prices[flight.TravelClass(class)] = price
	}
	f, err := h.service.CreateFlight(c.Request().Context(), application.CreateFlightInput{
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		AircraftType:  req.AircraftType,
		Gate:          req.Gate,
		TotalSeats:    req.TotalSeats,
		ClassPrices:   prices,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toFlightResponse(f))
}

// GetByID godoc
// @Summary フライトを取得
// @Tags flights
// @Produce json
// @Param id path string true "フライトID"
// @Success 200 {object} FlightResponse
// @Failure 404 {object} map[string]string
// @Router /flights/{id} [get]
func (h *FlightHandler) GetByID(c echo.Context) error {
	f, err := h.service.GetFlight(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toFlightResponse(f))
}

// Search godoc
// @Summary フライトを検索
// @Description 出発地・到着地（と任意で日付）から予約可能なフライトを検索します
// @Tags flights
// @Produce json
// @Param origin query string true "出発地" example(HND)
// @Param destination query string true "到着地" example(CTS)
// @Param date query string false "搭乗日（RFC3339）"
// @Success 200 {array} FlightResponse
// @Failure 400 {object} map[string]string
// @Router /flights/search [get]
func (h *FlightHandler) Search(c echo.Context) error {
	origin := c.QueryParam("origin")
	destination := c.QueryParam("destination")
	if origin == "" || destination == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "出発地と到着地は必須です")
	}

	var date time.Time
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "無効な日付形式です")
		}
		date = parsed
	}

	flights, err := h.service.SearchFlights(c.Request().Context(), origin, destination, date)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]FlightResponse, len(flights))
	for i, f := range flights {
		resp[i] = toFlightResponse(f)
	}
	return c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary フライト一覧を取得
// @Tags flights
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} FlightResponse
// @Router /flights [get]
func (h *FlightHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	flights, err := h.service.ListFlights(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]FlightResponse, len(flights))
	for i, f := range flights {
		resp[i] = toFlightResponse(f)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary フライト状態を更新
// @Description フライトの運航状態（SCHEDULED/DELAYED/CANCELLED/DEPARTED）を変更します
// @Tags flights
// @Accept json
// @Produce json
// @Param id path string true "フライトID"
// @Param request body UpdateFlightStatusRequest true "新しい状態"
// @Success 200 {object} FlightResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /flights/{id}/status [put]
func (h *FlightHandler) UpdateStatus(c echo.Context) error {
	var req UpdateFlightStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	f, err := h.service.UpdateFlightStatus(c.Request().Context(), c.Param("id"), flight.Status(req.Status))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toFlightResponse(f))
}

// AvailableSeats godoc
// @Summary 空席数を取得
// @Description フライトの現在の空席数を返します（キャッシュあり）
// @Tags flights
// @Produce json
// @Param id path string true "フライトID"
// @Success 200 {object} AvailableSeatsResponse
// @Failure 404 {object} map[string]string
// @Router /flights/{id}/available-seats [get]
func (h *FlightHandler) AvailableSeats(c echo.Context) error {
	flightID := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), flightID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailableSeatsResponse{
		FlightID:       flightID,
		AvailableSeats: count,
	})
}
