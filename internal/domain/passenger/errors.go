package passenger

import "errors"

// Passenger ドメインのエラー定義
var (
	ErrPassengerNotFound = errors.New("搭乗者が見つかりません")
	ErrNameRequired      = errors.New("氏名は必須です")
	ErrEmailRequired     = errors.New("メールアドレスは必須です")
	ErrEmailTaken        = errors.New("同じメールアドレスのアカウントが既に存在します")
	ErrInvalidRole       = errors.New("無効なロールです")
)
