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
	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
)

// MockPassengerService はPassengerServiceInterfaceのモック
type MockPassengerService struct {
	mock.Mock
}

func (m *MockPassengerService) RegisterPassenger(ctx context.Context, input application.RegisterPassengerInput) (*passenger.Passenger, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*passenger.Passenger), args.Error(1)
}

func (m *MockPassengerService) GetPassenger(ctx context.Context, id string) (*passenger.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*passenger.Passenger), args.Error(1)
}

func TestPassengerHandler_Register(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に搭乗者を登録できる", func(t *testing.T) {
		mockService := new(MockPassengerService)
		now := time.Now()
		expected := &passenger.Passenger{
			ID:        "PS-TEST0001",
			Name:      "山田 太郎",
			Email:     "taro@example.com",
			Role:      passenger.RolePassenger,
			CreatedAt: now,
			UpdatedAt: now,
		}
		mockService.On("RegisterPassenger", mock.Anything, application.RegisterPassengerInput{
			Name:  "山田 太郎",
			Email: "taro@example.com",
		}).Return(expected, nil)

		handler := NewPassengerHandler(mockService)

		reqBody := `{"name": "山田 太郎", "email": "taro@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/passengers", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp PassengerResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "PS-TEST0001", resp.ID)
		assert.Equal(t, "PASSENGER", resp.Role)

		mockService.AssertExpectations(t)
	})

	t.Run("メールアドレスが重複している場合409", func(t *testing.T) {
		mockService := new(MockPassengerService)
		mockService.On("RegisterPassenger", mock.Anything, mock.AnythingOfType("application.RegisterPassengerInput")).
			Return(nil, passenger.ErrEmailTaken)

		handler := NewPassengerHandler(mockService)

		reqBody := `{"name": "山田 太郎", "email": "taro@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/passengers", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("無効なメールアドレスの場合400", func(t *testing.T) {
		mockService := new(MockPassengerService)
		handler := NewPassengerHandler(mockService)

		reqBody := `{"name": "山田 太郎", "email": "not-an-email"}`
		req := httptest.NewRequest(http.MethodPost, "/passengers", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Register(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestPassengerHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に搭乗者を取得できる", func(t *testing.T) {
		mockService := new(MockPassengerService)
		now := time.Now()
		expected := &passenger.Passenger{
			ID:        "PS-TEST0001",
			Name:      "山田 太郎",
			Email:     "taro@example.com",
			Role:      passenger.RolePassenger,
			CreatedAt: now,
			UpdatedAt: now,
		}
		mockService.On("GetPassenger", mock.Anything, "PS-TEST0001").Return(expected, nil)

		handler := NewPassengerHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/passengers/PS-TEST0001", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("PS-TEST0001")

		err := handler.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		mockService.AssertExpectations(t)
	})

	t.Run("搭乗者が見つからない場合404", func(t *testing.T) {
		mockService := new(MockPassengerService)
		mockService.On("GetPassenger", mock.Anything, "nonexistent").Return(nil, passenger.ErrPassengerNotFound)

		handler := NewPassengerHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/passengers/nonexistent", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("nonexistent")

		err := handler.GetByID(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}
