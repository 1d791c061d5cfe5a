package dispatch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/realtime"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/repository"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrTransitionDenied = errors.New("status transition not allowed")
	ErrNotARider        = errors.New("assignee is not a rider profile")
)

// OrderStore is the subset of the order repository the mutator needs.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to status.Status) error
	AssignRider(ctx context.Context, id, riderID string, from, to status.Status) error
}

// RiderDirectory answers the rider-role invariant check.
type RiderDirectory interface {
	IsRider(ctx context.Context, id string) (bool, error)
}

// EventLog records order history entries.
type EventLog interface {
	AppendOrderEvent(ctx context.Context, ev *repository.OrderEvent) error
}

// Publisher pushes change notifications to live subscribers.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, ev realtime.OrderEvent)
}

// Mutator applies order mutations: it validates the transition against
// the central table, persists with a status precondition, appends the
// event log entry and publishes the change. All calls are funneled
// through the dispatch actor, so mutations for a given deployment are
// serialized.
type Mutator struct {
	orders OrderStore
	riders RiderDirectory
	events EventLog
	bridge Publisher
	logger *zap.Logger
}

func NewMutator(orders OrderStore, riders RiderDirectory, events EventLog, bridge Publisher, logger *zap.Logger) *Mutator {
	return &Mutator{orders: orders, riders: riders, events: events, bridge: bridge, logger: logger}
}

// AdvanceStatus moves an order to the requested status on behalf of an
// actor with the given role.
func (m *Mutator) AdvanceStatus(ctx context.Context, orderID string, to status.Status, actorID string, role status.Role) (*models.Order, error) {
	order, err := m.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	from := order.Status
	if !status.CanTransition(role, from, to) {
		return nil, fmt.Errorf("%w: %s may not move %s -> %s", ErrTransitionDenied, role, from, to)
	}

	if err := m.orders.UpdateStatus(ctx, orderID, from, to); err != nil {
		return nil, err
	}
	order.Status = to

	m.record(ctx, &repository.OrderEvent{
		OrderID:   orderID,
		From:      from,
		To:        to,
		ActorID:   actorID,
		ActorRole: role,
	})
	m.publish(ctx, order)

	return order, nil
}

// AssignRider attaches a rider to an order and moves it to assigned.
// The assignee must be a profile with the rider role; the schema cannot
// enforce that, so it is checked here.
func (m *Mutator) AssignRider(ctx context.Context, orderID, riderID, actorID string, role status.Role) (*models.Order, error) {
	ok, err := m.riders.IsRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("verify rider: %w", err)
	}
	if !ok {
		return nil, ErrNotARider
	}

	order, err := m.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	from := order.Status
	if !status.CanTransition(role, from, status.Assigned) {
		return nil, fmt.Errorf("%w: %s may not assign from %s", ErrTransitionDenied, role, from)
	}

	if err := m.orders.AssignRider(ctx, orderID, riderID, from, status.Assigned); err != nil {
		return nil, err
	}
	order.RiderID = &riderID
	order.Status = status.Assigned

	m.record(ctx, &repository.OrderEvent{
		OrderID:   orderID,
		From:      from,
		To:        status.Assigned,
		ActorID:   actorID,
		ActorRole: role,
		RiderID:   riderID,
	})
	m.publish(ctx, order)

	return order, nil
}

func (m *Mutator) record(ctx context.Context, ev *repository.OrderEvent) {
	if m.events == nil {
		return
	}
	if err := m.events.AppendOrderEvent(ctx, ev); err != nil {
		m.logger.Warn("append order event",
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
	}
}

func (m *Mutator) publish(ctx context.Context, order *models.Order) {
	if m.bridge == nil {
		return
	}
	ev := realtime.OrderEvent{
		OrderID: order.ID,
		Status:  order.Status,
		Order:   order,
	}
	if order.RiderID != nil {
		ev.RiderID = *order.RiderID
	}
	m.bridge.PublishOrderEvent(ctx, ev)
}
