package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fardinGG/nocrashairlines/internal/pkg/logger"
)

// BookingExpirer は期限切れの決済待ち予約をキャンセルするインターフェース
type BookingExpirer interface {
	ExpirePendingBookings(ctx context.Context, cutoff time.Time) (int, error)
}

// PendingBookingExpirer は決済されないまま放置された予約を
// 定期的にキャンセルして座席を解放するワーカー
type PendingBookingExpirer struct {
	bookingService BookingExpirer
	interval       time.Duration
	expireAfter    time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewPendingBookingExpirer は新しいワーカーを作成
func NewPendingBookingExpirer(
	bs BookingExpirer,
	interval time.Duration,
	expireAfter time.Duration,
) *PendingBookingExpirer {
	return &PendingBookingExpirer{
		bookingService: bs,
		interval:       interval,
		expireAfter:    expireAfter,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はワーカーを開始
func (w *PendingBookingExpirer) Start(ctx context.Context) {
	logger.Info("期限切れ予約ワーカー開始",
		zap.Duration("interval", w.interval),
		zap.Duration("expire_after", w.expireAfter),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ予約ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("期限切れ予約ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.expire(ctx)
		}
	}
}

// Stop はワーカーを停止
func (w *PendingBookingExpirer) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// expire は期限切れの決済待ち予約をキャンセル
func (w *PendingBookingExpirer) expire(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ予約の走査開始")

	count, err := w.bookingService.ExpirePendingBookings(ctx, time.Now().Add(-w.expireAfter))
	if err != nil {
		log.Error("期限切れ予約の走査失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れ予約をキャンセル", zap.Int("count", count))
	} else {
		log.Debug("期限切れ予約なし")
	}
}
