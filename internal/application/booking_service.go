package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
	"github.com/fardinGG/nocrashairlines/internal/domain/passenger"
	"github.com/fardinGG/nocrashairlines/internal/domain/payment"
	"github.com/fardinGG/nocrashairlines/internal/gateway"
	"github.com/fardinGG/nocrashairlines/internal/notification"
	"github.com/fardinGG/nocrashairlines/internal/pkg/keymutex"
	"github.com/fardinGG/nocrashairlines/internal/pkg/logger"
	"github.com/fardinGG/nocrashairlines/internal/pkg/metrics"
)

// AvailabilityInvalidator は座席数の変更に合わせて空席数キャッシュを破棄する
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, flightID string) error
}

// BookingService は予約・決済・座席在庫をまたぐコーディネーター。
// 複数リソースの更新は分散トランザクションではなく、
// 「確保してから永続化し、失敗したら補償で巻き戻す」方式で整合性を保つ。
// フライト・予約のキー単位ロックで同一リソースへの操作を直列化するが、
// 決済ゲートウェイ呼び出し中はロックを保持しない
type BookingService struct {
	bookingRepo   booking.Repository
	flightRepo    flight.Repository
	paymentRepo   payment.Repository
	passengerRepo passenger.Repository
	gateway       gateway.PaymentGateway
	notifier      notification.Notifier
	cache         AvailabilityInvalidator
	flightLocks   *keymutex.KeyedMutex
	bookingLocks  *keymutex.KeyedMutex
	metrics       *metrics.Metrics
}

// NewBookingService は新しいBookingServiceを作成する
func NewBookingService(
	br booking.Repository,
	fr flight.Repository,
	pr payment.Repository,
	psr passenger.Repository,
	gw gateway.PaymentGateway,
	n notification.Notifier,
	cache AvailabilityInvalidator,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		bookingRepo:   br,
		flightRepo:    fr,
		paymentRepo:   pr,
		passengerRepo: psr,
		gateway:       gw,
		notifier:      n,
		cache:         cache,
		flightLocks:   keymutex.New(),
		bookingLocks:  keymutex.New(),
		metrics:       m,
	}
}

// CreateBookingInput は予約作成の入力
type CreateBookingInput struct {
	PassengerID string
	FlightID    string
	TravelClass flight.TravelClass
}

// CreateBooking はフライトの座席をひとつ確保してPENDINGの予約を作成する
// 座席の確保と予約の永続化の順序は固定で、予約の永続化に失敗した場合は
// 確保済みの座席を補償として解放する
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	if !input.TravelClass.Valid() {
		s.countOp("create", "rejected")
		return nil, flight.ErrInvalidTravelClass
	}

	p, err := s.passengerRepo.GetByID(ctx, input.PassengerID)
	if err != nil {
		s.countOp("create", "rejected")
		return nil, err
	}

	unlock := s.flightLocks.Lock(flightLockKey(input.FlightID))
	defer unlock()

	f, err := s.flightRepo.GetByID(ctx, input.FlightID)
	if err != nil {
		s.countOp("create", "rejected")
		return nil, err
	}
	if !f.IsBookable() {
		s.countOp("create", "rejected")
		return nil, flight.ErrFlightNotBookable
	}
	price, err := f.PriceFor(input.TravelClass)
	if err != nil {
		s.countOp("create", "rejected")
		return nil, err
	}

	seatNumber, ok := f.ReserveSeat()
	if !ok {
		s.countSeat("reserve", "exhausted")
		s.countOp("create", "rejected")
		return nil, flight.ErrNoSeatsAvailable
	}
	s.countSeat("reserve", "ok")

	if err := s.flightRepo.Update(ctx, f); err != nil {
		// 座席はまだ永続化されていないため巻き戻し不要
		s.countOp("create", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}
	s.invalidateAvailability(ctx, input.FlightID)

	b := booking.NewBooking(input.PassengerID, input.FlightID, booking.ContactSnapshot{
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		PassportNumber: p.PassportNumber,
	}, seatNumber, input.TravelClass, price)
	b.ID = newBookingID()
	if err := b.Validate(); err != nil {
		s.releaseSeatCompensating(ctx, input.FlightID, seatNumber, "create")
		s.countOp("create", "rejected")
		return nil, err
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		s.releaseSeatCompensating(ctx, input.FlightID, seatNumber, "create")
		s.countOp("create", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}

	s.countOp("create", "success")
	logger.Info("予約を作成しました",
		zap.String("booking_id", b.ID),
		zap.String("flight_id", b.FlightID),
		zap.String("seat_number", b.SeatNumber))
	return b, nil
}

// PayInput は決済の入力
type PayInput struct {
	BookingID    string
	Method       string
	CardLastFour string
}

// Pay はPENDINGの予約に対して決済を実行し、成功すれば予約を確定する
// ゲートウェイ呼び出し中はロックを保持しないため、与信成功後に予約を
// 再取得して状態を検証する。検証に失敗した場合は与信を返金で補償する
func (s *BookingService) Pay(ctx context.Context, input PayInput) (*payment.Payment, error) {
	if !s.gateway.IsMethodSupported(input.Method) {
		s.countOp("pay", "rejected")
		return nil, payment.ErrUnsupportedPaymentMethod
	}

	// 事前条件の検証と決済レコードの作成はロック下で行う
	unlock := s.bookingLocks.Lock(bookingLockKey(input.BookingID))
	b, err := s.bookingRepo.GetByID(ctx, input.BookingID)
	if err != nil {
		unlock()
		s.countOp("pay", "rejected")
		return nil, err
	}
	if b.Status == booking.StatusConfirmed {
		unlock()
		s.countOp("pay", "rejected")
		return nil, booking.ErrAlreadyPaid
	}
	if !b.IsPending() {
		unlock()
		s.countOp("pay", "rejected")
		return nil, booking.ErrBookingNotPayable
	}

	pay := payment.NewPayment(b.ID, b.PassengerID, b.TotalAmount, input.Method)
	pay.ID = newPaymentID()
	pay.CardLastFour = input.CardLastFour
	if err := s.paymentRepo.Create(ctx, pay); err != nil {
		unlock()
		s.countOp("pay", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}
	unlock()

	result, err := s.authorize(ctx, pay)
	if err != nil {
		_ = pay.MarkFailed()
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			logger.Error("失敗した決済の記録に失敗しました",
				zap.String("payment_id", pay.ID), zap.Error(uerr))
		}
		s.countOp("pay", "failed")
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayFailure, err)
	}
	if result.FraudDetected {
		pay.FraudDetected = true
		_ = pay.MarkFailed()
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			logger.Error("不正検出された決済の記録に失敗しました",
				zap.String("payment_id", pay.ID), zap.Error(uerr))
		}
		s.countOp("pay", "rejected")
		return nil, fmt.Errorf("%w: %s", payment.ErrFraudDetected, result.Reason)
	}
	if !result.Authorized {
		_ = pay.MarkFailed()
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			logger.Error("拒否された決済の記録に失敗しました",
				zap.String("payment_id", pay.ID), zap.Error(uerr))
		}
		s.countOp("pay", "failed")
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayFailure, result.Reason)
	}

	// 与信成功。ロックを取り直して予約の状態を再検証する
	unlock = s.bookingLocks.Lock(bookingLockKey(input.BookingID))
	defer unlock()

	_ = pay.MarkSuccess(result.TransactionReference)

	b, err = s.bookingRepo.GetByID(ctx, input.BookingID)
	if err != nil || !b.IsPending() {
		// 与信の間に予約がキャンセル等で動いた。与信を返金で巻き戻す
		if cerr := s.refundCompensating(ctx, pay, "決済中に予約が無効になりました"); cerr != nil {
			s.countOp("pay", "failed")
			return nil, cerr
		}
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			logger.Error("補償返金した決済の記録に失敗しました",
				zap.String("payment_id", pay.ID), zap.Error(uerr))
		}
		s.countOp("pay", "rejected")
		if err != nil {
			return nil, err
		}
		return nil, booking.ErrBookingNotPayable
	}

	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		if cerr := s.refundCompensating(ctx, pay, "決済結果の永続化に失敗しました"); cerr != nil {
			s.countOp("pay", "failed")
			return nil, cerr
		}
		s.countOp("pay", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}

	_ = b.Confirm(pay.ID)
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		if cerr := s.refundCompensating(ctx, pay, "予約確定の永続化に失敗しました"); cerr != nil {
			s.countOp("pay", "failed")
			return nil, cerr
		}
		if uerr := s.paymentRepo.Update(ctx, pay); uerr != nil {
			logger.Error("補償返金した決済の記録に失敗しました",
				zap.String("payment_id", pay.ID), zap.Error(uerr))
		}
		s.countOp("pay", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}

	s.countOp("pay", "success")
	logger.Info("決済が完了し予約を確定しました",
		zap.String("booking_id", b.ID),
		zap.String("payment_id", pay.ID),
		zap.String("transaction_reference", pay.TransactionReference))
	s.notify(ctx, notification.KindBookingConfirmed, b)
	return pay, nil
}

// Cancel は予約をキャンセルし、保持していた座席を解放する
// CANCELLEDの永続化が先、座席の解放が後。座席の解放はフライトロック下で行い、
// 同一フライトへの新規予約・リスケジュールと直列化する（ロック順は予約→フライト）。
// 座席解放の失敗はキャンセル自体を失敗させず、リコンシリエーション対象として
// ログとメトリクスに残す
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*booking.Booking, error) {
	unlock := s.bookingLocks.Lock(bookingLockKey(bookingID))
	defer unlock()

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.countOp("cancel", "rejected")
		return nil, err
	}
	heldFlightID, heldSeat := b.FlightID, b.SeatNumber
	if err := b.Cancel(); err != nil {
		s.countOp("cancel", "rejected")
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		s.countOp("cancel", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}

	unlockFlight := s.flightLocks.Lock(flightLockKey(heldFlightID))
	s.releaseSeatCompensating(ctx, heldFlightID, heldSeat, "cancel")
	unlockFlight()

	s.countOp("cancel", "success")
	logger.Info("予約をキャンセルしました",
		zap.String("booking_id", b.ID),
		zap.String("flight_id", heldFlightID),
		zap.String("seat_number", heldSeat))
	s.notify(ctx, notification.KindBookingCancelled, b)
	return b, nil
}

// Refund はキャンセル済み予約の成功した決済を返金する
// ゲートウェイ呼び出し中はロックを保持しないため、返金成功後にロックを取り直して
// 決済の状態を再検証する。同時返金はどちらか一方だけが成功する
func (s *BookingService) Refund(ctx context.Context, bookingID, reason string) (*payment.Payment, error) {
	unlock := s.bookingLocks.Lock(bookingLockKey(bookingID))
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		unlock()
		s.countOp("refund", "rejected")
		return nil, err
	}
	if b.Status != booking.StatusCancelled {
		unlock()
		s.countOp("refund", "rejected")
		return nil, booking.ErrBookingNotCancelled
	}
	pay, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		unlock()
		s.countOp("refund", "rejected")
		return nil, err
	}
	if !pay.CanBeRefunded() {
		unlock()
		s.countOp("refund", "rejected")
		return nil, payment.ErrPaymentNotRefundable
	}
	unlock()

	result, err := s.refund(ctx, pay, reason)
	if err != nil {
		s.countOp("refund", "failed")
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayFailure, err)
	}
	if !result.Refunded {
		s.countOp("refund", "failed")
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayFailure, result.Reason)
	}

	// 返金成功。ロックを取り直して決済の状態を再検証する
	unlock = s.bookingLocks.Lock(bookingLockKey(bookingID))
	defer unlock()

	pay, err = s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		s.countOp("refund", "failed")
		return nil, err
	}
	if !pay.CanBeRefunded() {
		// ゲートウェイ呼び出しの間に別の返金が完了していた
		s.countOp("refund", "rejected")
		return nil, payment.ErrPaymentNotRefundable
	}

	_ = pay.MarkRefunded(reason)
	if err := s.paymentRepo.Update(ctx, pay); err != nil {
		s.countOp("refund", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}

	s.countOp("refund", "success")
	logger.Info("決済を返金しました",
		zap.String("booking_id", bookingID),
		zap.String("payment_id", pay.ID))
	return pay, nil
}

// Reschedule は確定済みの予約を別のフライトへ移す
// 新フライトの座席確保→永続化→旧フライトの座席解放→永続化→予約更新の順で進み、
// 途中で失敗した場合は完了済みのステップを逆順に補償する。
// 両フライトのロックはキーのソート順に取得してデッドロックを防ぐ
func (s *BookingService) Reschedule(ctx context.Context, bookingID, newFlightID string) (*booking.Booking, error) {
	unlockBooking := s.bookingLocks.Lock(bookingLockKey(bookingID))
	defer unlockBooking()

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.countOp("reschedule", "rejected")
		return nil, err
	}
	if !b.IsConfirmedLike() {
		s.countOp("reschedule", "rejected")
		return nil, booking.ErrBookingNotReschedulable
	}
	if b.FlightID == newFlightID {
		s.countOp("reschedule", "rejected")
		return nil, booking.ErrRescheduleSameFlight
	}

	oldFlightID, oldSeat := b.FlightID, b.SeatNumber
	unlockFlights := s.lockFlights(oldFlightID, newFlightID)
	defer unlockFlights()

	newFlight, err := s.flightRepo.GetByID(ctx, newFlightID)
	if err != nil {
		s.countOp("reschedule", "rejected")
		return nil, err
	}
	if !newFlight.IsBookable() {
		s.countOp("reschedule", "rejected")
		return nil, flight.ErrFlightNotBookable
	}
	if _, err := newFlight.PriceFor(b.TravelClass); err != nil {
		s.countOp("reschedule", "rejected")
		return nil, err
	}

	newSeat, ok := newFlight.ReserveSeat()
	if !ok {
		s.countSeat("reserve", "exhausted")
		s.countOp("reschedule", "rejected")
		return nil, flight.ErrNoSeatsAvailable
	}
	s.countSeat("reserve", "ok")

	if err := s.flightRepo.Update(ctx, newFlight); err != nil {
		s.countOp("reschedule", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}
	s.invalidateAvailability(ctx, newFlightID)

	oldFlight, err := s.flightRepo.GetByID(ctx, oldFlightID)
	if err == nil {
		if !oldFlight.ReleaseSeat(oldSeat) {
			s.countSeat("release", "double_release")
			logger.Warn("リスケジュール元の座席が既に解放されていました",
				zap.String("flight_id", oldFlightID),
				zap.String("seat_number", oldSeat))
		} else {
			s.countSeat("release", "ok")
		}
		err = s.flightRepo.Update(ctx, oldFlight)
	}
	if err != nil {
		// 新フライトの確保を巻き戻す
		if cerr := s.compensateSeatRelease(ctx, newFlightID, newSeat); cerr != nil {
			s.countOp("reschedule", "failed")
			return nil, cerr
		}
		s.countOp("reschedule", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}
	s.invalidateAvailability(ctx, oldFlightID)

	_ = b.Reschedule(newFlightID, newSeat)
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		// 座席の移動を両側とも逆方向に巻き戻す
		if cerr := s.compensateSeatRelease(ctx, newFlightID, newSeat); cerr != nil {
			s.countOp("reschedule", "failed")
			return nil, cerr
		}
		if cerr := s.compensateSeatReserve(ctx, oldFlightID, oldSeat); cerr != nil {
			s.countOp("reschedule", "failed")
			return nil, cerr
		}
		s.countOp("reschedule", "failed")
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}

	s.countOp("reschedule", "success")
	logger.Info("予約をリスケジュールしました",
		zap.String("booking_id", b.ID),
		zap.String("old_flight_id", oldFlightID),
		zap.String("new_flight_id", newFlightID),
		zap.String("seat_number", newSeat))
	s.notify(ctx, notification.KindBookingRescheduled, b)
	return b, nil
}

// CheckIn は確定済みの予約に対して搭乗手続きを行い、手荷物タグを発行する
func (s *BookingService) CheckIn(ctx context.Context, bookingID string) (*booking.Booking, error) {
	unlock := s.bookingLocks.Lock(bookingLockKey(bookingID))
	defer unlock()

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := b.CheckIn(newBaggageTag()); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrPersistenceFailure, err)
	}

	logger.Info("搭乗手続きが完了しました",
		zap.String("booking_id", b.ID),
		zap.String("baggage_tag", b.BaggageTag))
	return b, nil
}

// GetBooking はIDから予約を取得する
func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// ListByPassenger は搭乗者の予約一覧を取得する
func (s *BookingService) ListByPassenger(ctx context.Context, passengerID string) ([]*booking.Booking, error) {
	return s.bookingRepo.ListByPassenger(ctx, passengerID)
}

// ListByFlight はフライトの予約一覧を取得する
func (s *BookingService) ListByFlight(ctx context.Context, flightID string) ([]*booking.Booking, error) {
	return s.bookingRepo.ListByFlight(ctx, flightID)
}

// ExpirePendingBookings は指定時刻より前に作成された決済待ち予約をキャンセルする
// キャンセルされた件数を返す
func (s *BookingService) ExpirePendingBookings(ctx context.Context, cutoff time.Time) (int, error) {
	pending, err := s.bookingRepo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range pending {
		if _, err := s.Cancel(ctx, b.ID); err != nil {
			// ワーカーの走査中に利用者が決済・キャンセルした場合は競合であり異常ではない
			logger.Debug("期限切れ予約のキャンセルをスキップしました",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		expired++
	}
	return expired, nil
}

// authorize はメトリクスを記録しつつゲートウェイの与信を呼び出す
func (s *BookingService) authorize(ctx context.Context, p *payment.Payment) (gateway.AuthorizationResult, error) {
	start := time.Now()
	result, err := s.gateway.Authorize(ctx, p)
	s.observeGateway("authorize", start, gatewayStatus(err, result.Authorized, result.FraudDetected))
	return result, err
}

// refund はメトリクスを記録しつつゲートウェイの返金を呼び出す
func (s *BookingService) refund(ctx context.Context, p *payment.Payment, reason string) (gateway.RefundResult, error) {
	start := time.Now()
	result, err := s.gateway.Refund(ctx, p, reason)
	s.observeGateway("refund", start, gatewayStatus(err, result.Refunded, false))
	return result, err
}

// refundCompensating は与信済み決済を補償として返金する
// 補償自体の失敗は座席・決済の不整合を意味するため、ログとメトリクスに残した上で
// ErrCompensationFailedを返す
func (s *BookingService) refundCompensating(ctx context.Context, p *payment.Payment, reason string) error {
	result, err := s.refund(ctx, p, reason)
	if err != nil || !result.Refunded {
		s.countCompensationFailure()
		logger.Error("補償返金に失敗しました。手動リコンシリエーションが必要です",
			zap.String("payment_id", p.ID),
			zap.String("booking_id", p.BookingID),
			zap.String("transaction_reference", p.TransactionReference),
			zap.String("reason", reason),
			zap.Error(err))
		return booking.ErrCompensationFailed
	}
	_ = p.MarkRefunded(reason)
	return nil
}

// releaseSeatCompensating は確保済みの座席を解放して永続化する
// 解放の失敗は呼び出し元の操作を失敗させず、リコンシリエーション対象として記録する
func (s *BookingService) releaseSeatCompensating(ctx context.Context, flightID, seatNumber, operation string) {
	f, err := s.flightRepo.GetByID(ctx, flightID)
	if err == nil {
		if !f.ReleaseSeat(seatNumber) {
			s.countSeat("release", "double_release")
			logger.Warn("解放対象の座席が既に空いていました",
				zap.String("flight_id", flightID),
				zap.String("seat_number", seatNumber),
				zap.String("operation", operation))
			return
		}
		s.countSeat("release", "ok")
		err = s.flightRepo.Update(ctx, f)
	}
	if err != nil {
		s.countCompensationFailure()
		logger.Error("座席解放の永続化に失敗しました。手動リコンシリエーションが必要です",
			zap.String("flight_id", flightID),
			zap.String("seat_number", seatNumber),
			zap.String("operation", operation),
			zap.Error(err))
		return
	}
	s.invalidateAvailability(ctx, flightID)
}

// compensateSeatRelease は補償として座席を解放する。失敗時はErrCompensationFailed
func (s *BookingService) compensateSeatRelease(ctx context.Context, flightID, seatNumber string) error {
	f, err := s.flightRepo.GetByID(ctx, flightID)
	if err == nil {
		f.ReleaseSeat(seatNumber)
		err = s.flightRepo.Update(ctx, f)
	}
	if err != nil {
		s.countCompensationFailure()
		logger.Error("補償の座席解放に失敗しました。手動リコンシリエーションが必要です",
			zap.String("flight_id", flightID),
			zap.String("seat_number", seatNumber),
			zap.Error(err))
		return booking.ErrCompensationFailed
	}
	s.invalidateAvailability(ctx, flightID)
	return nil
}

// compensateSeatReserve は補償として解放済みの座席を確保し直す。失敗時はErrCompensationFailed
func (s *BookingService) compensateSeatReserve(ctx context.Context, flightID, seatNumber string) error {
	f, err := s.flightRepo.GetByID(ctx, flightID)
	if err == nil {
		if !f.ReserveSeatNumber(seatNumber) {
			err = flight.ErrNoSeatsAvailable
		} else {
			err = s.flightRepo.Update(ctx, f)
		}
	}
	if err != nil {
		s.countCompensationFailure()
		logger.Error("補償の座席再確保に失敗しました。手動リコンシリエーションが必要です",
			zap.String("flight_id", flightID),
			zap.String("seat_number", seatNumber),
			zap.Error(err))
		return booking.ErrCompensationFailed
	}
	s.invalidateAvailability(ctx, flightID)
	return nil
}

// invalidateAvailability は座席数を変更した後に空席数キャッシュを破棄する
func (s *BookingService) invalidateAvailability(ctx context.Context, flightID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, flightID); err != nil {
		logger.Warn("空席数キャッシュの無効化に失敗しました",
			zap.String("flight_id", flightID), zap.Error(err))
	}
}

// notify は予約イベントをベストエフォートで通知する。失敗しても操作は成功扱い
func (s *BookingService) notify(ctx context.Context, kind notification.Kind, b *booking.Booking) {
	if s.notifier == nil {
		return
	}
	f, err := s.flightRepo.GetByID(ctx, b.FlightID)
	if err != nil {
		f = nil
	}
	if err := s.notifier.Notify(ctx, kind, b, f); err != nil {
		logger.Warn("通知の送信に失敗しました",
			zap.String("booking_id", b.ID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

// lockFlights は2つのフライトのロックをキーのソート順に取得する
func (s *BookingService) lockFlights(flightID1, flightID2 string) (unlock func()) {
	keys := []string{flightLockKey(flightID1), flightLockKey(flightID2)}
	sort.Strings(keys)
	unlock1 := s.flightLocks.Lock(keys[0])
	unlock2 := s.flightLocks.Lock(keys[1])
	return func() {
		unlock2()
		unlock1()
	}
}

func (s *BookingService) countOp(operation, status string) {
	if s.metrics != nil {
		s.metrics.BookingOperationsTotal.WithLabelValues(operation, status).Inc()
	}
}

func (s *BookingService) countSeat(operation, result string) {
	if s.metrics != nil {
		s.metrics.SeatOperationsTotal.WithLabelValues(operation, result).Inc()
	}
}

func (s *BookingService) countCompensationFailure() {
	if s.metrics != nil {
		s.metrics.CompensationFailuresTotal.Inc()
	}
}

func (s *BookingService) observeGateway(operation string, start time.Time, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.GatewayCallsTotal.WithLabelValues(operation, status).Inc()
	s.metrics.GatewayCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func gatewayStatus(err error, ok, fraud bool) string {
	switch {
	case err != nil:
		return "error"
	case fraud:
		return "fraud"
	case !ok:
		return "declined"
	}
	return "success"
}

func flightLockKey(flightID string) string   { return "flight:" + flightID }
func bookingLockKey(bookingID string) string { return "booking:" + bookingID }

func newBookingID() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}

func newPaymentID() string {
	return "PAY-" + strings.ToUpper(uuid.NewString()[:8])
}

func newBaggageTag() string {
	return "BAG-" + strings.ToUpper(uuid.NewString()[:8])
}
