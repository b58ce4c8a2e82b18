package flight

import (
	"context"
	"time"
)

// Repository はフライトリポジトリのインターフェース
type Repository interface {
	// Create は新しいフライトを作成する
	Create(ctx context.Context, flight *Flight) error

	// GetByID はIDからフライトを取得する
	GetByID(ctx context.Context, id string) (*Flight, error)

	// GetByNumber は便名からフライトを取得する
	GetByNumber(ctx context.Context, flightNumber string) (*Flight, error)

	// Search は出発地・到着地・出発日でSCHEDULEDかつ空席ありのフライトを検索する
	Search(ctx context.Context, origin, destination string, date time.Time) ([]*Flight, error)

	// List はフライト一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Flight, error)

	// Update はフライトを更新する（楽観的ロック）
	Update(ctx context.Context, flight *Flight) error
}
