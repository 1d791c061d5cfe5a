package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

// OrderEvent is the change notification published whenever an order
// mutates. The snapshot lets subscribers merge the change directly;
// subscribers that prefer the simpler full-refetch flow may ignore it.
type OrderEvent struct {
	OrderID string        `json:"order_id"`
	RiderID string        `json:"rider_id,omitempty"`
	Status  status.Status `json:"status"`
	Order   *models.Order `json:"order,omitempty"`
	At      time.Time     `json:"at"`
}

func orderChannel(orderID string) string {
	return fmt.Sprintf("orders:%s", orderID)
}

func riderChannel(riderID string) string {
	return fmt.Sprintf("riders:%s", riderID)
}

// Bridge fans order change events out over redis pub/sub, keyed by order
// id and, when a rider is attached, by rider id.
type Bridge struct {
	client *redis.Client
	logger *zap.Logger
}

func NewBridge(client *redis.Client, logger *zap.Logger) *Bridge {
	return &Bridge{client: client, logger: logger}
}

// PublishOrderEvent is best-effort: a publish failure is logged, not
// propagated, so a notification outage never fails the mutation itself.
func (b *Bridge) PublishOrderEvent(ctx context.Context, ev OrderEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("marshal order event", zap.Error(err))
		return
	}

	channels := []string{orderChannel(ev.OrderID)}
	if ev.RiderID != "" {
		channels = append(channels, riderChannel(ev.RiderID))
	}
	for _, ch := range channels {
		if err := b.client.Publish(ctx, ch, payload).Err(); err != nil {
			b.logger.Warn("publish order event",
				zap.String("channel", ch),
				zap.Error(err))
		}
	}
}

// SubscribeOrder streams events for one order. The returned stop function
// must be called to release the subscription.
func (b *Bridge) SubscribeOrder(ctx context.Context, orderID string) (<-chan OrderEvent, func()) {
	return b.subscribe(ctx, orderChannel(orderID))
}

// SubscribeRider streams events for every order assigned to a rider.
func (b *Bridge) SubscribeRider(ctx context.Context, riderID string) (<-chan OrderEvent, func()) {
	return b.subscribe(ctx, riderChannel(riderID))
}

func (b *Bridge) subscribe(ctx context.Context, channel string) (<-chan OrderEvent, func()) {
	sub := b.client.Subscribe(ctx, channel)
	out := make(chan OrderEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("decode order event", zap.Error(err))
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
