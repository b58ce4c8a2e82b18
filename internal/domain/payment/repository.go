package payment

import "context"

// Repository は決済リポジトリのインターフェース
type Repository interface {
	// Create は新しい決済を作成する
	Create(ctx context.Context, payment *Payment) error

	// GetByID はIDから決済を取得する
	GetByID(ctx context.Context, id string) (*Payment, error)

	// GetByBookingID は予約IDから最新の決済を取得する
	GetByBookingID(ctx context.Context, bookingID string) (*Payment, error)

	// Update は決済を更新する
	Update(ctx context.Context, payment *Payment) error
}
