// Package notification は予約に関する通知の送信を提供する。
// 通知はfire-and-forgetであり、送信失敗はログに記録されるだけで
// 予約・決済の状態には一切影響しない
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/pkg/logger"
)

// Kind は通知の種別を表す
type Kind string

const (
	KindBookingConfirmed   Kind = "booking_confirmed"
	KindBookingCancelled   Kind = "booking_cancelled"
	KindBookingRescheduled Kind = "booking_rescheduled"
)

// Notifier は通知送信のインターフェース
type Notifier interface {
	// Notify は予約に関する通知を送信する
	Notify(ctx context.Context, kind Kind, b *booking.Booking, f *flight.Flight) error
}

// LogNotifier は通知をログに出力するだけのNotifier
// ブローカー未設定の構成（開発・テスト）でのデフォルト実装
type LogNotifier struct{}

// NewLogNotifier は新しいLogNotifierを作成する
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify は通知内容をログに出力する
func (n *LogNotifier) Notify(ctx context.Context, kind Kind, b *booking.Booking, f *flight.Flight) error {
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("booking_id", b.ID),
		zap.String("passenger_email", b.PassengerEmail),
	}
	if f != nil {
		fields = append(fields,
			zap.String("flight_number", f.FlightNumber),
			zap.String("origin", f.Origin),
			zap.String("destination", f.Destination),
		)
	}
	logger.Info("通知を送信", fields...)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
