// Package memory はインメモリのリポジトリ実装を提供する。
// 単体テストおよび外部ストレージなしの構成で使用するリファレンス実装。
// エンティティは読み書き時に深いコピーされるため、
// 呼び出し側が保持する参照を通じてストアの内容が変わることはない
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
)

// FlightRepository はインメモリのフライトリポジトリ
type FlightRepository struct {
	mu      sync.RWMutex
	flights map[string]*flight.Flight
}

// NewFlightRepository は新しいFlightRepositoryを作成する
func NewFlightRepository() *FlightRepository {
	return &FlightRepository{flights: make(map[string]*flight.Flight)}
}

// Create は新しいフライトを保存する
func (r *FlightRepository) Create(ctx context.Context, f *flight.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.flights {
		if existing.FlightNumber == f.FlightNumber {
			return flight.ErrFlightNumberTaken
		}
	}
	r.flights[f.ID] = f.Clone()
	return nil
}

// GetByID はIDからフライトを取得する
func (r *FlightRepository) GetByID(ctx context.Context, id string) (*flight.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.flights[id]
	if !ok {
		return nil, flight.ErrFlightNotFound
	}
	return f.Clone(), nil
}

// GetByNumber は便名からフライトを取得する
func (r *FlightRepository) GetByNumber(ctx context.Context, flightNumber string) (*flight.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.flights {
		if f.FlightNumber == flightNumber {
			return f.Clone(), nil
		}
	}
	return nil, flight.ErrFlightNotFound
}

// Search は出発地・到着地・出発日でSCHEDULEDかつ空席ありのフライトを検索する
func (r *FlightRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]*flight.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*flight.Flight
	for _, f := range r.flights {
		if f.Origin != origin || f.Destination != destination {
			continue
		}
		if f.Status != flight.StatusScheduled || f.AvailableSeats <= 0 {
			continue
		}
		if !date.IsZero() {
			y1, m1, d1 := f.DepartureTime.Date()
			y2, m2, d2 := date.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		results = append(results, f.Clone())
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].DepartureTime.Before(results[j].DepartureTime)
	})
	return results, nil
}

// List はフライト一覧を便名順で取得する
func (r *FlightRepository) List(ctx context.Context, limit, offset int) ([]*flight.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*flight.Flight, 0, len(r.flights))
	for _, f := range r.flights {
		all = append(all, f.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].FlightNumber < all[j].FlightNumber
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Update はフライトを更新する（楽観的ロック）
func (r *FlightRepository) Update(ctx context.Context, f *flight.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.flights[f.ID]
	if !ok {
		return flight.ErrFlightNotFound
	}
	if existing.Version != f.Version {
		return flight.ErrOptimisticLockConflict
	}
	updated := f.Clone()
	updated.Version++
	r.flights[f.ID] = updated
	f.Version = updated.Version
	return nil
}

var _ flight.Repository = (*FlightRepository)(nil)
