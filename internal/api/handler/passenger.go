package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fardinGG/nocrashairlines/internal/application"
	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
)

type PassengerHandler struct {
	service PassengerServiceInterface
}

func NewPassengerHandler(s PassengerServiceInterface) *PassengerHandler {
	return &PassengerHandler{service: s}
}

type RegisterPassengerRequest struct {
	Name           string `json:"name" validate:"required" example:"山田 太郎"`
	Email          string `json:"email" validate:"required,email" example:"taro@example.com"`
	Phone          string `json:"phone" example:"090-1234-5678"`
	PassportNumber string `json:"passport_number" example:"TK1234567"`
}

type PassengerResponse struct {
	ID             string    `json:"id" example:"PS-A1B2C3D4"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	PassportNumber string    `json:"passport_number,omitempty"`
	Role           string    `json:"role" example:"PASSENGER"`
	CreatedAt      time.Time `json:"created_at"`
}

func toPassengerResponse(p *passenger.Passenger) PassengerResponse {
	return PassengerResponse{
		ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone,
		PassportNumber: p.PassportNumber, Role: string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}

// Register godoc
// @Summary 搭乗者を登録
// @Description 新しい搭乗者アカウントを作成します
// @Tags passengers
// @Accept json
// @Produce json
// @Param request body RegisterPassengerRequest true "搭乗者情報"
// @Success 201 {object} PassengerResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "メールアドレス重複"
// @Router /passengers [post]
func (h *PassengerHandler) Register(c echo.Context) error {
	var req RegisterPassengerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.service.RegisterPassenger(c.Request().Context(), application.RegisterPassengerInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		PassportNumber: req.PassportNumber,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toPassengerResponse(p))
}

// GetByID godoc
// @Summary 搭乗者を取得
// @Tags passengers
// @Produce json
// @Param id path string true "搭乗者ID"
// @Success 200 {object} PassengerResponse
// @Failure 404 {object} map[string]string
// @Router /passengers/{id} [get]
func (h *PassengerHandler) GetByID(c echo.Context) error {
	p, err := h.service.GetPassenger(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toPassengerResponse(p))
}
