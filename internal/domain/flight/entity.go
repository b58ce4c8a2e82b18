package flight

import (
	"fmt"
	"time"
)

// Status はフライトの状態を表す
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusDelayed   Status = "DELAYED"
	StatusCancelled Status = "CANCELLED"
	StatusDeparted  Status = "DEPARTED"
	StatusArrived   Status = "ARRIVED"
)

// Valid はフライト状態として有効かを返す
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusDelayed, StatusCancelled, StatusDeparted, StatusArrived:
		return true
	}
	return false
}

// TravelClass は搭乗クラスを表す
type TravelClass string

const (
	ClassEconomy    TravelClass = "ECONOMY"
	ClassBusiness   TravelClass = "BUSINESS"
	ClassFirstClass TravelClass = "FIRST_CLASS"
)

// TravelClasses は全搭乗クラス。フライトはすべてのクラスに運賃を持つ必要がある
var TravelClasses = []TravelClass{ClassEconomy, ClassBusiness, ClassFirstClass}

// Valid は搭乗クラスとして有効かを返す
func (c TravelClass) Valid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirstClass:
		return true
	}
	return false
}

// seatsPerRow は1列あたりの座席数（A〜F）
const seatsPerRow = 6

// Flight はフライトエンティティを表す
// AvailableSeatsとOccupiedSeatsの変更はReserveSeat/ReleaseSeat経由のみ。
// 呼び出し側がフライト単位のロックを保持していることを前提とする
type Flight struct {
	ID             string
	FlightNumber   string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	AircraftType   string
	Gate           string
	TotalSeats     int
	AvailableSeats int
	ClassPrices    map[TravelClass]int64 // クラス別運賃（セント）
	Status         Status
	OccupiedSeats  map[string]bool // 座席番号 -> 使用中
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int // 楽観的ロック用
}

// NewFlight は新しいフライトを作成する
func NewFlight(flightNumber, origin, destination string, departureTime, arrivalTime time.Time, totalSeats int, classPrices map[TravelClass]int64) *Flight {
	now := time.Now()
	prices := make(map[TravelClass]int64, len(classPrices))
	for class, price := range classPrices {
		prices[class] = price
	}
	return &Flight{
		FlightNumber:   flightNumber,
		Origin:         origin,
		Destination:    destination,
		DepartureTime:  departureTime,
		ArrivalTime:    arrivalTime,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		ClassPrices:    prices,
		Status:         StatusScheduled,
		OccupiedSeats:  make(map[string]bool),
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        0,
	}
}

// IsBookable は予約受付可能な状態かを返す
func (f *Flight) IsBookable() bool {
	return f.Status == StatusScheduled
}

// HasAvailableSeats は空席があるかを返す
func (f *Flight) HasAvailableSeats() bool {
	return f.AvailableSeats > 0
}

// PriceFor は搭乗クラスの運賃を返す
func (f *Flight) PriceFor(class TravelClass) (int64, error) {
	price, ok := f.ClassPrices[class]
	if !ok {
		return 0, ErrInvalidTravelClass
	}
	return price, nil
}

// seatLabel はスロット番号から座席ラベル（1A, 1B, ... 2A, ...）を生成する
func seatLabel(slot int) string {
	row := slot/seatsPerRow + 1
	letter := rune('A' + slot%seatsPerRow)
	return fmt.Sprintf("%d%c", row, letter)
}

// ReserveSeat は空きスロットをひとつ確保し、座席番号を返す
// 空席がない場合は何も変更せずfalseを返す。
// スロットの割り当ては決定的で、同一フライト内で座席番号が衝突することはない
func (f *Flight) ReserveSeat() (string, bool) {
	if f.AvailableSeats <= 0 {
		return "", false
	}
	for slot := 0; slot < f.TotalSeats; slot++ {
		label := seatLabel(slot)
		if !f.OccupiedSeats[label] {
			f.OccupiedSeats[label] = true
			f.AvailableSeats--
			f.UpdatedAt = time.Now()
			return label, true
		}
	}
	// AvailableSeats > 0 なのに空きスロットがない場合は不整合
	return "", false
}

// ReserveSeatNumber は指定した座席番号のスロットを確保する（リスケジュール補償用）
func (f *Flight) ReserveSeatNumber(seatNumber string) bool {
	if f.AvailableSeats <= 0 || f.OccupiedSeats[seatNumber] {
		return false
	}
	f.OccupiedSeats[seatNumber] = true
	f.AvailableSeats--
	f.UpdatedAt = time.Now()
	return true
}

// ReleaseSeat は座席を解放する
// 二重解放に対しては何も変更せずfalseを返す（呼び出し側が異常としてログする）。
// AvailableSeatsがTotalSeatsを超えることはない
func (f *Flight) ReleaseSeat(seatNumber string) bool {
	if !f.OccupiedSeats[seatNumber] {
		return false
	}
	delete(f.OccupiedSeats, seatNumber)
	if f.AvailableSeats < f.TotalSeats {
		f.AvailableSeats++
	}
	f.UpdatedAt = time.Now()
	return true
}

// Validate はフライトの検証を行う
func (f *Flight) Validate() error {
	if f.FlightNumber == "" {
		return ErrFlightNumberRequired
	}
	if f.Origin == "" || f.Destination == "" {
		return ErrRouteRequired
	}
	if f.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	if !f.ArrivalTime.After(f.DepartureTime) {
		return ErrInvalidFlightTime
	}
	for _, class := range TravelClasses {
		price, ok := f.ClassPrices[class]
		if !ok || price <= 0 {
			return ErrIncompletePriceTable
		}
	}
	return nil
}

// Clone はフライトの深いコピーを返す
func (f *Flight) Clone() *Flight {
	c := *f
	c.ClassPrices = make(map[TravelClass]int64, len(f.ClassPrices))
	for class, price := range f.ClassPrices {
		c.ClassPrices[class] = price
	}
	c.OccupiedSeats = make(map[string]bool, len(f.OccupiedSeats))
	for seat := range f.OccupiedSeats {
		c.OccupiedSeats[seat] = true
	}
	return &c
}
