package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fardinGG/nocrashairlines/internal/domain/booking"
	"github.com/fardinGG/nocrashairlines/internal/domain/flight"
)

// BookingEvent はKafkaへ配信する通知イベント
type BookingEvent struct {
	Kind           string    `json:"kind"`
	BookingID      string    `json:"booking_id"`
	PassengerEmail string    `json:"passenger_email"`
	PassengerPhone string    `json:"passenger_phone"`
	FlightNumber   string    `json:"flight_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	SeatNumber     string    `json:"seat_number"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// KafkaNotifier は通知イベントをKafkaトピックへ配信するNotifier
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier は新しいKafkaNotifierを作成する
// brokersはカンマ区切りのブローカーアドレス
func NewKafkaNotifier(brokers, topic string) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaNotifier{writer: writer}
}

// Notify は通知イベントをトピックへ発行する
func (n *KafkaNotifier) Notify(ctx context.Context, kind Kind, b *booking.Booking, f *flight.Flight) error {
	event := BookingEvent{
		Kind:           string(kind),
		BookingID:      b.ID,
		PassengerEmail: b.PassengerEmail,
		PassengerPhone: b.PassengerPhone,
		SeatNumber:     b.SeatNumber,
		Status:         string(b.Status),
		OccurredAt:     time.Now(),
	}
	if f != nil {
		event.FlightNumber = f.FlightNumber
		event.Origin = f.Origin
		event.Destination = f.Destination
		event.DepartureTime = f.DepartureTime
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("通知イベントのシリアライズに失敗: %w", err)
	}

	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(b.ID),
		Value: data,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("通知イベントの発行に失敗: %w", err)
	}
	return nil
}

// Close はKafkaライターを閉じる
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

var _ Notifier = (*KafkaNotifier)(nil)
