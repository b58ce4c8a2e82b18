package flight

import "errors"

// Flight ドメインのエラー定義
var (
	ErrFlightNotFound         = errors.New("フライトが見つかりません")
	ErrFlightNotBookable      = errors.New("フライトは予約受付中ではありません")
	ErrNoSeatsAvailable       = errors.New("空席がありません")
	ErrInvalidTravelClass     = errors.New("無効な搭乗クラスです")
	ErrFlightNumberRequired   = errors.New("便名は必須です")
	ErrFlightNumberTaken      = errors.New("同じ便名のフライトが既に存在します")
	ErrRouteRequired          = errors.New("出発地と到着地は必須です")
	ErrInvalidTotalSeats      = errors.New("座席数は1以上である必要があります")
	ErrInvalidFlightTime      = errors.New("到着時刻は出発時刻より後である必要があります")
	ErrIncompletePriceTable   = errors.New("全搭乗クラスの運賃が必要です")
	ErrInvalidStatus          = errors.New("無効なフライト状態です")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
