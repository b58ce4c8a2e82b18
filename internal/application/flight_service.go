package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	redisinfra "github.com/fardinGG/nocrashairlines/internal/infrastructure/redis"
	"github.com/fardinGG/nocrashairlines/internal/pkg/logger"
)

const (
	availabilityCacheTTL = 30 * time.Second
)

// FlightService はフライトの登録・検索・状態管理を行う
type FlightService struct {
	flightRepo flight.Repository
	cache      *redisinfra.AvailabilityCache
}

// NewFlightService は新しいFlightServiceを作成する
// cacheはnilでもよく、その場合キャッシュは使用されない
func NewFlightService(fr flight.Repository, cache *redisinfra.AvailabilityCache) *FlightService {
	return &FlightService{flightRepo: fr, cache: cache}
}

// CreateFlightInput はフライト登録の入力
type CreateFlightInput struct {
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	AircraftType  string
	Gate          string
	TotalSeats    int
	ClassPrices   map[flight.TravelClass]int64
}

// CreateFlight は新しいフライトを登録する
func (s *FlightService) CreateFlight(ctx context.Context, input CreateFlightInput) (*flight.Flight, error) {
	f := flight.NewFlight(input.FlightNumber, input.Origin, input.Destination,
		input.DepartureTime, input.ArrivalTime, input.TotalSeats, input.ClassPrices)
	f.ID = newFlightID()
	f.AircraftType = input.AircraftType
	f.Gate = input.Gate

	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := s.flightRepo.Create(ctx, f); err != nil {
		return nil, err
	}

	logger.Info("フライトを登録しました",
		zap.String("flight_id", f.ID),
		zap.String("flight_number", f.FlightNumber),
		zap.String("route", f.Origin+"-"+f.Destination))
	return f, nil
}

// GetFlight はIDからフライトを取得する
func (s *FlightService) GetFlight(ctx context.Context, id string) (*flight.Flight, error) {
	return s.flightRepo.GetByID(ctx, id)
}

// GetFlightByNumber は便名からフライトを取得する
func (s *FlightService) GetFlightByNumber(ctx context.Context, flightNumber string) (*flight.Flight, error) {
	return s.flightRepo.GetByNumber(ctx, flightNumber)
}

// SearchFlights は出発地・到着地・出発日で予約可能なフライトを検索する
// dateがゼロ値の場合は日付を問わない
func (s *FlightService) SearchFlights(ctx context.Context, origin, destination string, date time.Time) ([]*flight.Flight, error) {
	return s.flightRepo.Search(ctx, origin, destination, date)
}

// ListFlights はフライト一覧を取得する
func (s *FlightService) ListFlights(ctx context.Context, limit, offset int) ([]*flight.Flight, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.flightRepo.List(ctx, limit, offset)
}

// UpdateFlightStatus はフライトの状態を更新する
func (s *FlightService) UpdateFlightStatus(ctx context.Context, id string, status flight.Status) (*flight.Flight, error) {
	if !status.Valid() {
		return nil, flight.ErrInvalidStatus
	}
	f, err := s.flightRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Status = status
	if err := s.flightRepo.Update(ctx, f); err != nil {
		return nil, err
	}

	logger.Info("フライトの状態を更新しました",
		zap.String("flight_id", f.ID),
		zap.String("status", string(status)))
	return f, nil
}

// CountAvailableSeats はフライトの空席数を返す
// キャッシュが設定されている場合はキャッシュを優先する
func (s *FlightService) CountAvailableSeats(ctx context.Context, flightID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableSeats(ctx, flightID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("flight_id", flightID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	f, err := s.flightRepo.GetByID(ctx, flightID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableSeats(ctx, flightID, f.AvailableSeats, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return f.AvailableSeats, nil
}

func newFlightID() string {
	return "FL-" + uuid.NewString()
}
