package passenger

import "context"

// Repository は搭乗者リポジトリのインターフェース
type Repository interface {
	// Create は新しい搭乗者を作成する
	Create(ctx context.Context, passenger *Passenger) error

	// GetByID はIDから搭乗者を取得する
	GetByID(ctx context.Context, id string) (*Passenger, error)

	// GetByEmail はメールアドレスから搭乗者を取得する
	GetByEmail(ctx context.Context, email string) (*Passenger, error)

	// Update は搭乗者を更新する
	Update(ctx context.Context, passenger *Passenger) error
}
