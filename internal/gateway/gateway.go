// Package gateway は決済ゲートウェイの抽象化とモック実装を提供する。
// 実際の決済ネットワークとの連携はスコープ外であり、
// 本番相当の確率的な挙動を持つモックと、テスト用の決定的な設定を切り替えられる
package gateway

import (
	"context"

	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

// AuthorizationResult は与信結果を表す
// FraudDetectedは与信の成否とは独立した不正検出シグナル
type AuthorizationResult struct {
	Authorized           bool
	TransactionReference string
	FraudDetected        bool
	Reason               string
}

// RefundResult は返金結果を表す
type RefundResult struct {
	Refunded        bool
	RefundReference string
	Reason          string
}

// PaymentGateway は決済ゲートウェイのインターフェース
// Authorize/Refundのトランスポート障害（タイムアウト等）はerrorとして返り、
// 与信の拒否や不正検出は結果値として返る
type PaymentGateway interface {
	// Authorize は決済の与信を行う
	Authorize(ctx context.Context, p *payment.Payment) (AuthorizationResult, error)

	// Refund は与信済みの決済を返金する
	// トランザクション参照がゲートウェイ側の記録と照合できない場合は失敗する
	Refund(ctx context.Context, p *payment.Payment, reason string) (RefundResult, error)

	// IsMethodSupported は決済手段がサポートされているかを返す
	IsMethodSupported(method string) bool
}
