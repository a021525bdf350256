// Package notify publica los eventos del flujo de tiquetes (emisión, pago, reembolso).
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
)

var _ booking.Notifier = (*KafkaNotifier)(nil)

// Config conexión al broker.
type Config struct {
	Brokers []string
	Topic   string
}

// messageWriter lo que se usa de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope sobre común de todos los eventos publicados.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// KafkaNotifier publica cada evento como un mensaje JSON con clave = ID del tiquete,
// de modo que los eventos de un mismo tiquete caen en la misma partición y conservan orden.
type KafkaNotifier struct {
	writer messageWriter
	topic  string
}

// NewKafkaNotifier construye el productor síncrono.
func NewKafkaNotifier(cfg Config) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w, topic: cfg.Topic}
}

// newKafkaNotifierWithWriter para tests.
func newKafkaNotifierWithWriter(w messageWriter, topic string) *KafkaNotifier {
	return &KafkaNotifier{writer: w, topic: topic}
}

// TicketIssued publica la emisión del tiquete.
func (n *KafkaNotifier) TicketIssued(ctx context.Context, ev booking.TicketIssuedEvent) error {
	return n.publish(ctx, booking.EventTicketIssued, ev.TicketID, ev.IssuedAt, ev)
}

// PaymentCaptured publica el pago de la venta.
func (n *KafkaNotifier) PaymentCaptured(ctx context.Context, ev booking.PaymentCapturedEvent) error {
	return n.publish(ctx, booking.EventPaymentCaptured, ev.TicketID, ev.CapturedAt, ev)
}

// RefundIssued publica el reembolso de una devolución.
func (n *KafkaNotifier) RefundIssued(ctx context.Context, ev booking.RefundIssuedEvent) error {
	return n.publish(ctx, booking.EventRefundIssued, ev.TicketID, ev.IssuedAt, ev)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType, key string, at time.Time, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: serializar %s: %w", eventType, err)
	}
	value, err := json.Marshal(Envelope{Type: eventType, OccurredAt: at, Payload: body})
	if err != nil {
		return fmt.Errorf("notify: serializar sobre %s: %w", eventType, err)
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("notify: publicar %s en %s: %w", eventType, n.topic, err)
	}
	return nil
}

// Close libera el writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
