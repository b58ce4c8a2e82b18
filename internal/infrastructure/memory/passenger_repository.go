package memory

import (
	"context"
	"sync"

	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
)

// PassengerRepository はインメモリの搭乗者リポジトリ
type PassengerRepository struct {
	mu         sync.RWMutex
	passengers map[string]*passenger.Passenger
}

// NewPassengerRepository は新しいPassengerRepositoryを作成する
func NewPassengerRepository() *PassengerRepository {
	return &PassengerRepository{passengers: make(map[string]*passenger.Passenger)}
}

// Create は新しい搭乗者を保存する
func (r *PassengerRepository) Create(ctx context.Context, p *passenger.Passenger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.passengers {
		if existing.Email == p.Email {
			return passenger.ErrEmailTaken
		}
	}
	r.passengers[p.ID] = p.Clone()
	return nil
}

// GetByID はIDから搭乗者を取得する
func (r *PassengerRepository) GetByID(ctx context.Context, id string) (*passenger.Passenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.passengers[id]
	if !ok {
		return nil, passenger.ErrPassengerNotFound
	}
	return p.Clone(), nil
}

// GetByEmail はメールアドレスから搭乗者を取得する
func (r *PassengerRepository) GetByEmail(ctx context.Context, email string) (*passenger.Passenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.passengers {
		if p.Email == email {
			return p.Clone(), nil
		}
	}
	return nil, passenger.ErrPassengerNotFound
}

// Update は搭乗者を更新する
func (r *PassengerRepository) Update(ctx context.Context, p *passenger.Passenger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.passengers[p.ID]; !ok {
		return passenger.ErrPassengerNotFound
	}
	r.passengers[p.ID] = p.Clone()
	return nil
}

var _ passenger.Repository = (*PassengerRepository)(nil)
