package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

// Messages accepted by the dispatch actor.
type AdvanceStatus struct {
	OrderID string
	To      status.Status
	ActorID string
	Role    status.Role
}

type AssignRider struct {
	OrderID string
	RiderID string
	ActorID string
	Role    status.Role
}

// MutationResult is the actor's reply. Err is nil on success.
type MutationResult struct {
	Order *models.Order
	Err   error
}

// DispatchActor serializes order mutations: every assignment and status
// transition flows through this single mailbox, so two actors updating
// the same order can no longer race each other.
type DispatchActor struct {
	mutator *Mutator
	timeout time.Duration
	logger  *zap.Logger
}

func (a *DispatchActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *AdvanceStatus:
		opCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
		order, err := a.mutator.AdvanceStatus(opCtx, msg.OrderID, msg.To, msg.ActorID, msg.Role)
		cancel()
		if err != nil {
			a.logger.Warn("advance status rejected",
				zap.String("order_id", msg.OrderID),
				zap.String("to", string(msg.To)),
				zap.Error(err))
		} else {
			a.logger.Info("order status advanced",
				zap.String("order_id", msg.OrderID),
				zap.String("to", string(msg.To)),
				zap.String("role", string(msg.Role)))
		}
		ctx.Respond(&MutationResult{Order: order, Err: err})

	case *AssignRider:
		opCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
		order, err := a.mutator.AssignRider(opCtx, msg.OrderID, msg.RiderID, msg.ActorID, msg.Role)
		cancel()
		if err != nil {
			a.logger.Warn("rider assignment rejected",
				zap.String("order_id", msg.OrderID),
				zap.String("rider_id", msg.RiderID),
				zap.Error(err))
		} else {
			a.logger.Info("rider assigned",
				zap.String("order_id", msg.OrderID),
				zap.String("rider_id", msg.RiderID))
		}
		ctx.Respond(&MutationResult{Order: order, Err: err})

	case *actor.Started:
		a.logger.Info("dispatch actor started")

	case *actor.Stopping:
		a.logger.Info("dispatch actor stopping")

	case *actor.Stopped:
		a.logger.Info("dispatch actor stopped")
	}
}

// Client wraps the actor system with a request/response API for the
// gateway handlers.
type Client struct {
	system  *actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
}

// Start spawns the dispatch actor and returns a client bound to it.
func Start(mutator *Mutator, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &DispatchActor{
			mutator: mutator,
			timeout: timeout,
			logger:  logger.Named("dispatch-actor"),
		}
	})
	pid, err := system.Root.SpawnNamed(props, "dispatch-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn dispatch actor: %w", err)
	}

	return &Client{system: system, pid: pid, timeout: timeout}, nil
}

func (c *Client) request(msg interface{}) (*models.Order, error) {
	future := c.system.Root.RequestFuture(c.pid, msg, c.timeout)
	result, err := future.Result()
	if err != nil {
		return nil, fmt.Errorf("dispatch request: %w", err)
	}
	res, ok := result.(*MutationResult)
	if !ok {
		return nil, fmt.Errorf("dispatch request: unexpected reply %T", result)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Order, nil
}

// AdvanceStatus asks the dispatch actor to perform a status transition.
func (c *Client) AdvanceStatus(orderID string, to status.Status, actorID string, role status.Role) (*models.Order, error) {
	return c.request(&AdvanceStatus{OrderID: orderID, To: to, ActorID: actorID, Role: role})
}

// AssignRider asks the dispatch actor to attach a rider to an order.
func (c *Client) AssignRider(orderID, riderID, actorID string, role status.Role) (*models.Order, error) {
	return c.request(&AssignRider{OrderID: orderID, RiderID: riderID, ActorID: actorID, Role: role})
}

// Shutdown stops the actor system, draining the mailbox first.
func (c *Client) Shutdown() {
	c.system.Root.Stop(c.pid)
	c.system.Shutdown()
}
