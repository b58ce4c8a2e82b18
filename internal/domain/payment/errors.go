package payment

import "errors"

// Payment ドメインのエラー定義
var (
	ErrPaymentNotFound          = errors.New("決済が見つかりません")
	ErrPaymentNotPending        = errors.New("決済は処理待ちではありません")
	ErrPaymentNotRefundable     = errors.New("決済は返金できる状態ではありません")
	ErrUnsupportedPaymentMethod = errors.New("サポートされていない決済手段です")
	ErrFraudDetected            = errors.New("不正な取引が検出されました")
	ErrGatewayFailure           = errors.New("決済ゲートウェイの処理に失敗しました")
)
