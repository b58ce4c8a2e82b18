package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingExpirer はBookingExpirerのモック
type MockBookingExpirer struct {
	mock.Mock
}

func (m *MockBookingExpirer) ExpirePendingBookings(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func TestNewPendingBookingExpirer(t *testing.T) {
	mockService := new(MockBookingExpirer)
	interval := 1 * time.Minute
	expireAfter := 15 * time.Minute

	expirer := NewPendingBookingExpirer(mockService, interval, expireAfter)

	assert.NotNil(t, expirer)
	assert.Equal(t, interval, expirer.interval)
	assert.Equal(t, expireAfter, expirer.expireAfter)
	assert.NotNil(t, expirer.stopCh)
	assert.NotNil(t, expirer.doneCh)
}

func TestPendingBookingExpirer_Expire(t *testing.T) {
	t.Run("正常に期限切れ処理が実行される", func(t *testing.T) {
		mockService := new(MockBookingExpirer)
		mockService.On("ExpirePendingBookings", mock.Anything, mock.AnythingOfType("time.Time")).Return(5, nil)

		expirer := &PendingBookingExpirer{
			bookingService: mockService,
			interval:       1 * time.Minute,
			expireAfter:    15 * time.Minute,
			stopCh:         make(chan struct{}),
			doneCh:         make(chan struct{}),
		}

		expirer.expire(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("カットオフ時刻はexpireAfterの分だけ過去", func(t *testing.T) {
		mockService := new(MockBookingExpirer)
		mockService.On("ExpirePendingBookings", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			delta := time.Since(cutoff) - 15*time.Minute
			return delta >= 0 && delta < time.Second
		})).Return(0, nil)

		expirer := &PendingBookingExpirer{
			bookingService: mockService,
			interval:       1 * time.Minute,
			expireAfter:    15 * time.Minute,
			stopCh:         make(chan struct{}),
			doneCh:         make(chan struct{}),
		}

		expirer.expire(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("エラーが発生しても継続する", func(t *testing.T) {
		mockService := new(MockBookingExpirer)
		mockService.On("ExpirePendingBookings", mock.Anything, mock.AnythingOfType("time.Time")).Return(0, assert.AnError)

		expirer := &PendingBookingExpirer{
			bookingService: mockService,
			interval:       1 * time.Minute,
			expireAfter:    15 * time.Minute,
			stopCh:         make(chan struct{}),
			doneCh:         make(chan struct{}),
		}

		// パニックしないことを確認
		expirer.expire(context.Background())

		mockService.AssertExpectations(t)
	})
}

func TestPendingBookingExpirer_StartStop(t *testing.T) {
	t.Run("開始と停止が正常に動作する", func(t *testing.T) {
		mockService := new(MockBookingExpirer)
		mockService.On("ExpirePendingBookings", mock.Anything, mock.AnythingOfType("time.Time")).Return(0, nil).Maybe()

		expirer := NewPendingBookingExpirer(mockService, 50*time.Millisecond, 100*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go expirer.Start(ctx)

		time.Sleep(120 * time.Millisecond)

		expirer.Stop()

		select {
		case <-expirer.doneCh:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("expirer did not stop in time")
		}
	})

	t.Run("コンテキストキャンセルで停止する", func(t *testing.T) {
		mockService := new(MockBookingExpirer)
		mockService.On("ExpirePendingBookings", mock.Anything, mock.AnythingOfType("time.Time")).Return(0, nil).Maybe()

		expirer := NewPendingBookingExpirer(mockService, 50*time.Millisecond, 100*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			expirer.Start(ctx)
			close(done)
		}()

		time.Sleep(80 * time.Millisecond)
		cancel()

		select {
		case <-done:
			// 正常に終了
		case <-time.After(1 * time.Second):
			t.Error("expirer did not stop after context cancel")
		}
	})
}
