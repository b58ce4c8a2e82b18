package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
)

// supportedMethods はモックゲートウェイがサポートする決済手段
var supportedMethods = map[string]bool{
	payment.MethodCreditCard:    true,
	payment.MethodDebitCard:     true,
	payment.MethodDigitalWallet: true,
	payment.MethodOnlineBanking: true,
}

// MockGateway は確率的な与信挙動を持つモック決済ゲートウェイ
// 承認したトランザクション参照を自身で記録し、返金時に照合する
type MockGateway struct {
	mu           sync.Mutex
	transactions map[string]string // トランザクション参照 -> 決済ID
	rng          *rand.Rand
	successRate  float64
	latency      time.Duration
	fraudCeiling int64
}

// Option はMockGatewayの設定オプション
type Option func(*MockGateway)

// WithSuccessRate は与信成功率を設定する（1.0で常に成功、0.0で常に失敗）
func WithSuccessRate(rate float64) Option {
	return func(g *MockGateway) { g.successRate = rate }
}

// WithLatency は疑似ネットワーク遅延を設定する
func WithLatency(d time.Duration) Option {
	return func(g *MockGateway) { g.latency = d }
}

// WithFraudCeiling は不正とみなす金額の上限を設定する
func WithFraudCeiling(ceiling int64) Option {
	return func(g *MockGateway) { g.fraudCeiling = ceiling }
}

// WithRandSource は乱数源を設定する（テストの決定化用）
func WithRandSource(src rand.Source) Option {
	return func(g *MockGateway) { g.rng = rand.New(src) }
}

// NewMockGateway は新しいモックゲートウェイを作成する
func NewMockGateway(opts ...Option) *MockGateway {
	g := &MockGateway{
		transactions: make(map[string]string),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate:  0.95,
		latency:      100 * time.Millisecond,
		fraudCeiling: 50_000_00,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize は決済の与信を行う
// 不正ルール（金額0以下、上限超過、無効な決済手段）は与信試行の前に適用される
func (g *MockGateway) Authorize(ctx context.Context, p *payment.Payment) (AuthorizationResult, error) {
	if fraudReason, ok := g.detectFraud(p); ok {
		return AuthorizationResult{FraudDetected: true, Reason: fraudReason}, nil
	}

	if err := g.simulateLatency(ctx); err != nil {
		return AuthorizationResult{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rng.Float64() >= g.successRate {
		return AuthorizationResult{Reason: "与信が拒否されました"}, nil
	}

	ref := newTransactionReference()
	g.transactions[ref] = p.ID
	return AuthorizationResult{Authorized: true, TransactionReference: ref}, nil
}

// Refund は与信済みの決済を返金する
func (g *MockGateway) Refund(ctx context.Context, p *payment.Payment, reason string) (RefundResult, error) {
	if !p.CanBeRefunded() {
		return RefundResult{Reason: "返金可能な状態の決済ではありません"}, nil
	}
	if !g.VerifyTransaction(p.TransactionReference) {
		return RefundResult{Reason: "トランザクション参照を照合できません"}, nil
	}

	if err := g.simulateLatency(ctx); err != nil {
		return RefundResult{}, err
	}

	return RefundResult{Refunded: true, RefundReference: "REF-" + newTransactionReference()}, nil
}

// IsMethodSupported は決済手段がサポートされているかを返す
func (g *MockGateway) IsMethodSupported(method string) bool {
	return supportedMethods[method]
}

// VerifyTransaction はトランザクション参照が過去の承認記録と一致するかを返す
func (g *MockGateway) VerifyTransaction(transactionReference string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.transactions[transactionReference]
	return ok
}

// detectFraud は与信前の不正ルールを適用する
func (g *MockGateway) detectFraud(p *payment.Payment) (string, bool) {
	if p.Amount <= 0 {
		return "金額が0以下です", true
	}
	if p.Amount > g.fraudCeiling {
		return "金額が上限を超えています", true
	}
	if !g.IsMethodSupported(p.Method) {
		return "無効な決済手段です", true
	}
	return "", false
}

// simulateLatency はネットワーク遅延をシミュレートする
// コンテキストのキャンセル・タイムアウトを尊重する
func (g *MockGateway) simulateLatency(ctx context.Context) error {
	if g.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newTransactionReference() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

var _ PaymentGateway = (*MockGateway)(nil)
