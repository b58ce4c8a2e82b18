package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound         = errors.New("予約が見つかりません")
	ErrAlreadyPaid             = errors.New("予約は既に決済済みです")
	ErrBookingNotPayable       = errors.New("この予約は決済できる状態ではありません")
	ErrBookingNotCancellable   = errors.New("予約はキャンセルできる状態ではありません")
	ErrBookingNotCancelled     = errors.New("キャンセルされていない予約は返金できません")
	ErrBookingNotReschedulable = errors.New("予約はリスケジュールできる状態ではありません")
	ErrRescheduleSameFlight    = errors.New("同じフライトへはリスケジュールできません")
	ErrBookingNotCheckInable   = errors.New("予約は搭乗手続きできる状態ではありません")
	ErrAlreadyCheckedIn        = errors.New("既に搭乗手続き済みです")
	ErrPassengerIDRequired     = errors.New("搭乗者IDは必須です")
	ErrFlightIDRequired        = errors.New("フライトIDは必須です")
	ErrPassengerNameRequired   = errors.New("搭乗者名は必須です")
	ErrInvalidAmount           = errors.New("金額は0より大きい必要があります")
	ErrPersistenceFailure      = errors.New("予約の永続化に失敗しました")
	// ErrCompensationFailed は補償処理自体の失敗を表す。
	// 「有効な予約は必ず1座席を保持する」という不変条件が破れている可能性があり、
	// 手動リコンシリエーションが必要
	ErrCompensationFailed = errors.New("補償処理に失敗しました（手動リコンシリエーションが必要です）")
)
