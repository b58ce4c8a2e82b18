package memory

import (
	"context"
	"sync"

	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

// PaymentRepository はインメモリの決済リポジトリ
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
	order    []string // 作成順（GetByBookingIDで最新を返すため）
}

// NewPaymentRepository は新しいPaymentRepositoryを作成する
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[string]*payment.Payment)}
}

// Create は新しい決済を保存する
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return nil
}

// GetByID はIDから決済を取得する
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	return p.Clone(), nil
}

// GetByBookingID は予約IDから最新の決済を取得する
// 再試行により複数レコードがある場合は最後に作成されたものを返す
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		p := r.payments[r.order[i]]
		if p != nil && p.BookingID == bookingID {
			return p.Clone(), nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

// Update は決済を更新する
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[p.ID]; !ok {
		return payment.ErrPaymentNotFound
	}
	r.payments[p.ID] = p.Clone()
	return nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
