package payment

import "time"

// Status は決済の状態を表す
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

// 決済手段の定義
const (
	MethodCreditCard    = "CREDIT_CARD"
	MethodDebitCard     = "DEBIT_CARD"
	MethodDigitalWallet = "DIGITAL_WALLET"
	MethodOnlineBanking = "ONLINE_BANKING"
)

// Payment は決済エンティティを表す
// ひとつの予約に対してSUCCESSまたはREFUNDEDの決済は同時に最大1件。
// 失敗した決済の再試行は新しいPaymentレコードとして作成される
type Payment struct {
	ID                   string
	BookingID            string
	PassengerID          string
	Amount               int64 // 予約のTotalAmountの複製（セント）
	Method               string
	Status               Status
	TransactionReference string // SUCCESS時のみ設定
	CardLastFour         string
	FraudDetected        bool
	RefundReason         string // REFUNDED時のみ設定
	RefundDate           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewPayment は新しい決済を作成する
func NewPayment(bookingID, passengerID string, amount int64, method string) *Payment {
	now := time.Now()
	return &Payment{
		BookingID:   bookingID,
		PassengerID: passengerID,
		Amount:      amount,
		Method:      method,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkSuccess は決済を成功として記録する
func (p *Payment) MarkSuccess(transactionReference string) error {
	if p.Status != StatusPending {
		return ErrPaymentNotPending
	}
	p.Status = StatusSuccess
	p.TransactionReference = transactionReference
	p.UpdatedAt = time.Now()
	return nil
}

// MarkFailed は決済を失敗として記録する
func (p *Payment) MarkFailed() error {
	if p.Status != StatusPending {
		return ErrPaymentNotPending
	}
	p.Status = StatusFailed
	p.UpdatedAt = time.Now()
	return nil
}

// MarkRefunded は決済を返金済みとして記録する
// SUCCESSからのみ遷移できる
func (p *Payment) MarkRefunded(reason string) error {
	if !p.CanBeRefunded() {
		return ErrPaymentNotRefundable
	}
	now := time.Now()
	p.Status = StatusRefunded
	p.RefundReason = reason
	p.RefundDate = &now
	p.UpdatedAt = now
	return nil
}

// IsSuccessful は決済が成功済みかを返す
func (p *Payment) IsSuccessful() bool {
	return p.Status == StatusSuccess
}

// CanBeRefunded は返金可能な状態かを返す
func (p *Payment) CanBeRefunded() bool {
	return p.Status == StatusSuccess
}

// Clone は決済の深いコピーを返す
func (p *Payment) Clone() *Payment {
	c := *p
	if p.RefundDate != nil {
		d := *p.RefundDate
		c.RefundDate = &d
	}
	return &c
}
