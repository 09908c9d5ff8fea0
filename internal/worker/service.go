package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

// Service consumes order lifecycle events. It keeps per-product sales
// counters and drops stale catalog cache entries for products whose stock
// just changed.
type Service struct {
	Redis       *redis.Client
	Cache       *catalog.Cache
	ServiceName string
}

// HandleOrderCreated is wired as the consumer handler for order.created.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	done, err := s.dedup(ctx, env.EventID)
	if err != nil || done {
		return err
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		key := fmt.Sprintf(redisx.KeySales, it.ProductID)
		if err := s.Redis.IncrBy(ctx, key, int64(it.Quantity)).Err(); err != nil {
			return err
		}
		ids = append(ids, it.ProductID)
	}
	s.Cache.Invalidate(ctx, ids...)

	log.Printf("order created: id=%s user=%s items=%d total=%s", p.OrderID, p.UserID, len(p.Items), p.TotalPrice)
	return nil
}

// HandleOrderCancelled reverses the sales counters and invalidates the same
// cache entries.
func (s *Service) HandleOrderCancelled(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCancelled {
		return nil
	}

	done, err := s.dedup(ctx, env.EventID)
	if err != nil || done {
		return err
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCancelledPayload](env.Payload)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		key := fmt.Sprintf(redisx.KeySales, it.ProductID)
		if err := s.Redis.DecrBy(ctx, key, int64(it.Quantity)).Err(); err != nil {
			return err
		}
		ids = append(ids, it.ProductID)
	}
	s.Cache.Invalidate(ctx, ids...)

	log.Printf("order cancelled: id=%s user=%s items=%d", p.OrderID, p.UserID, len(p.Items))
	return nil
}

// dedup marks the event processed; redelivered events are skipped.
func (s *Service) dedup(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, eventID)
	ok, err := s.Redis.SetNX(ctx, key, "1", redisx.TTLDedup).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
