package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
	"github.com/fardinGG/nocrashairlines/internal/pkg/logger"
)

// PassengerService は搭乗者アカウントの管理を行う
type PassengerService struct {
	passengerRepo passenger.Repository
}

// NewPassengerService は新しいPassengerServiceを作成する
func NewPassengerService(pr passenger.Repository) *PassengerService {
	return &PassengerService{passengerRepo: pr}
}

// RegisterPassengerInput は搭乗者登録の入力
type RegisterPassengerInput struct {
	Name           string
	Email          string
	Phone          string
	PassportNumber string
}

// RegisterPassenger は新しい搭乗者を登録する
// メールアドレスは一意で、既存のアドレスとの重複は拒否される
func (s *PassengerService) RegisterPassenger(ctx context.Context, input RegisterPassengerInput) (*passenger.Passenger, error) {
	p := passenger.NewPassenger(input.Name, input.Email, input.Phone, input.PassportNumber)
	p.ID = newPassengerID()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.passengerRepo.GetByEmail(ctx, p.Email); err == nil {
		return nil, passenger.ErrEmailTaken
	} else if !errors.Is(err, passenger.ErrPassengerNotFound) {
		return nil, err
	}
	if err := s.passengerRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("搭乗者を登録しました",
		zap.String("passenger_id", p.ID),
		zap.String("email", p.Email))
	return p, nil
}

// GetPassenger はIDから搭乗者を取得する
func (s *PassengerService) GetPassenger(ctx context.Context, id string) (*passenger.Passenger, error) {
	return s.passengerRepo.GetByID(ctx, id)
}

func newPassengerID() string {
	return "PS-" + strings.ToUpper(uuid.NewString()[:8])
}
