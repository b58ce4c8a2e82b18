package booking

import (
	"context"
	"time"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する
	Create(ctx context.Context, booking *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// Update は予約を更新する
	Update(ctx context.Context, booking *Booking) error

	// ListByPassenger は搭乗者IDから予約一覧を取得する
	ListByPassenger(ctx context.Context, passengerID string) ([]*Booking, error)

	// ListByFlight はフライトIDから予約一覧を取得する
	ListByFlight(ctx context.Context, flightID string) ([]*Booking, error)

	// ListPendingBefore は指定時刻より前に作成された決済待ち予約を取得する
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*Booking, error)
}
