package orders

import (
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
)

// Publisher emits lifecycle events after the transaction has committed.
// It is nil-safe so the service can run without Kafka wired (tests).
type Publisher struct {
	Created   *kafkax.Producer
	Cancelled *kafkax.Producer
	Service   string
}

func (p *Publisher) OrderCreated(o *Order, traceID string) {
	if p == nil || p.Created == nil {
		return
	}
	p.publish(p.Created, EventOrderCreated, o.ID, traceID, OrderCreatedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Items:      eventItems(o),
		TotalPrice: o.TotalPrice,
	})
}

func (p *Publisher) OrderCancelled(o *Order, traceID string) {
	if p == nil || p.Cancelled == nil {
		return
	}
	p.publish(p.Cancelled, EventOrderCancelled, o.ID, traceID, OrderCancelledPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Items:   eventItems(o),
	})
}

func (p *Publisher) publish(prod *kafkax.Producer, eventType, orderID, traceID string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	prod.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
