package booking

import (
	"time"

	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusConfirmed   Status = "CONFIRMED"
	StatusCancelled   Status = "CANCELLED"
	StatusRescheduled Status = "RESCHEDULED"
)

// Booking は予約エンティティを表す
// 搭乗者の連絡先は予約時点のスナップショットであり、
// 後から搭乗者情報が編集されても過去の予約には影響しない
type Booking struct {
	ID             string
	PassengerID    string
	FlightID       string
	PassengerName  string
	PassengerEmail string
	PassengerPhone string
	PassportNumber string
	SeatNumber     string
	TravelClass    flight.TravelClass
	TotalAmount    int64 // 予約時点の運賃（セント）。後の運賃変更は反映されない
	Status         Status
	PaymentID      *string
	CheckedIn      bool
	BaggageTag     string
	BookingDate    time.Time
	LastModified   time.Time
}

// ContactSnapshot は予約時に複製する搭乗者の連絡先情報
type ContactSnapshot struct {
	Name           string
	Email          string
	Phone          string
	PassportNumber string
}

// NewBooking は新しい予約を作成する
func NewBooking(passengerID, flightID string, contact ContactSnapshot, seatNumber string, travelClass flight.TravelClass, totalAmount int64) *Booking {
	now := time.Now()
	return &Booking{
		PassengerID:    passengerID,
		FlightID:       flightID,
		PassengerName:  contact.Name,
		PassengerEmail: contact.Email,
		PassengerPhone: contact.Phone,
		PassportNumber: contact.PassportNumber,
		SeatNumber:     seatNumber,
		TravelClass:    travelClass,
		TotalAmount:    totalAmount,
		Status:         StatusPending,
		BookingDate:    now,
		LastModified:   now,
	}
}

// IsPending は予約が決済待ちかを返す
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsConfirmedLike は確定済み（CONFIRMED、またはリスケジュール後の便で有効）かを返す
// RESCHEDULEDは新しい便で確定済みの予約として扱う
func (b *Booking) IsConfirmedLike() bool {
	return b.Status == StatusConfirmed || b.Status == StatusRescheduled
}

// HoldsSeat は予約が座席を保持しているかを返す
// CANCELLEDの予約はどのフライトの座席も保持しない
func (b *Booking) HoldsSeat() bool {
	return b.Status != StatusCancelled
}

// Confirm は決済成功後に予約を確定する
func (b *Booking) Confirm(paymentID string) error {
	if b.Status != StatusPending {
		return ErrAlreadyPaid
	}
	b.Status = StatusConfirmed
	b.PaymentID = &paymentID
	b.LastModified = time.Now()
	return nil
}

// Cancel は予約をキャンセルする
// PENDING・CONFIRMED・RESCHEDULEDのいずれからもキャンセル可能。
// CANCELLEDは終端状態であり再キャンセルはできない
func (b *Booking) Cancel() error {
	if b.Status == StatusCancelled {
		return ErrBookingNotCancellable
	}
	b.Status = StatusCancelled
	b.LastModified = time.Now()
	return nil
}

// Reschedule は予約を別のフライトへ移す
// 予約IDは変わらず、フライト・座席・状態のみが更新される
func (b *Booking) Reschedule(newFlightID, newSeatNumber string) error {
	if !b.IsConfirmedLike() {
		return ErrBookingNotReschedulable
	}
	b.FlightID = newFlightID
	b.SeatNumber = newSeatNumber
	b.Status = StatusRescheduled
	b.CheckedIn = false
	b.BaggageTag = ""
	b.LastModified = time.Now()
	return nil
}

// CheckIn は搭乗手続きを行う
func (b *Booking) CheckIn(baggageTag string) error {
	if !b.IsConfirmedLike() {
		return ErrBookingNotCheckInable
	}
	if b.CheckedIn {
		return ErrAlreadyCheckedIn
	}
	b.CheckedIn = true
	b.BaggageTag = baggageTag
	b.LastModified = time.Now()
	return nil
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.PassengerID == "" {
		return ErrPassengerIDRequired
	}
	if b.FlightID == "" {
		return ErrFlightIDRequired
	}
	if b.PassengerName == "" {
		return ErrPassengerNameRequired
	}
	if !b.TravelClass.Valid() {
		return flight.ErrInvalidTravelClass
	}
	if b.TotalAmount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Clone は予約の深いコピーを返す
func (b *Booking) Clone() *Booking {
	c := *b
	if b.PaymentID != nil {
		id := *b.PaymentID
		c.PaymentID = &id
	}
	return &c
}
