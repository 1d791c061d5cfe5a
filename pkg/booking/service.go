package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/geo"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/match"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/pricing"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/realtime"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/repository"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

var (
	// ErrNoPackages rejects a booking with nothing to deliver.
	ErrNoPackages = errors.New("booking requires at least one package")
	// ErrManualSelectionRequired blocks submission when no rider is
	// within the auto-assignment threshold and none was chosen manually.
	ErrManualSelectionRequired = errors.New("no rider within threshold, manual selection required")
	// ErrNotARider rejects a manually chosen assignee without the rider role.
	ErrNotARider = errors.New("chosen rider is not a rider profile")
)

// RiderSource produces the rider directory snapshot for one booking
// attempt, distances precomputed from the pickup point.
type RiderSource interface {
	NearbyRiders(ctx context.Context, center geo.Coordinate, radiusKm float64, limit int) ([]match.Candidate, error)
}

// Pricer turns a trip distance into a quote.
type Pricer interface {
	Quote(ctx context.Context, distanceKm float64) (*pricing.Quote, error)
}

// OrderCreator persists the order with its items.
type OrderCreator interface {
	CreateWithItems(ctx context.Context, order *models.Order) error
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

// PackageInput is one package leg of a booking.
type PackageInput struct {
	PickupAddress  string         `json:"pickup_address"`
	Pickup         geo.Coordinate `json:"pickup_coords"`
	DropoffAddress string         `json:"dropoff_address"`
	Dropoff        geo.Coordinate `json:"dropoff_coords"`
	Description    string         `json:"item_description"`
	Quantity       int            `json:"quantity"`
}

// Request is a booking submission.
type Request struct {
	UserID              string
	VendorID            string
	RiderID             *string // manually chosen rider, nil to auto-assign
	DeliveryAddressID   *string
	PaymentMethod       string
	SpecialInstructions string
	Packages            []PackageInput
}

// QuoteResult is what the client needs before confirming: the priced
// trip, the auto-assignment decision and the candidate list for the
// manual dropdown.
type QuoteResult struct {
	DistanceKm float64           `json:"distance_km"`
	Price      pricing.Quote     `json:"price"`
	Decision   match.Decision    `json:"decision"`
	Candidates []match.Candidate `json:"candidates"`
}

// Service assembles quotes and submits bookings.
type Service struct {
	riders         RiderSource
	directory      RiderDirectory
	pricer         Pricer
	orders         OrderCreator
	events         EventLog
	bridge         Publisher
	selector       *match.Selector
	searchRadiusKm float64
	logger         *zap.Logger
}

func NewService(
	riders RiderSource,
	directory RiderDirectory,
	pricer Pricer,
	orders OrderCreator,
	events EventLog,
	bridge Publisher,
	selector *match.Selector,
	searchRadiusKm float64,
	logger *zap.Logger,
) *Service {
	return &Service{
		riders:         riders,
		directory:      directory,
		pricer:         pricer,
		orders:         orders,
		events:         events,
		bridge:         bridge,
		selector:       selector,
		searchRadiusKm: searchRadiusKm,
		logger:         logger,
	}
}

// TotalDistanceKm sums the straight-line leg distances of all packages.
func TotalDistanceKm(packages []PackageInput) float64 {
	var total float64
	for _, p := range packages {
		total += geo.HaversineKm(p.Pickup, p.Dropoff)
	}
	return total
}

// Quote prices a set of packages and runs nearest-rider selection from
// the first package's pickup point.
func (s *Service) Quote(ctx context.Context, packages []PackageInput) (*QuoteResult, error) {
	if len(packages) == 0 {
		return nil, ErrNoPackages
	}

	distance := TotalDistanceKm(packages)
	price, err := s.pricer.Quote(ctx, distance)
	if err != nil {
		return nil, err
	}

	candidates, err := s.riders.NearbyRiders(ctx, packages[0].Pickup, s.searchRadiusKm, 0)
	if err != nil {
		return nil, fmt.Errorf("rider directory: %w", err)
	}

	decision, err := s.selector.Select(candidates)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{
		DistanceKm: distance,
		Price:      *price,
		Decision:   decision,
		Candidates: candidates,
	}, nil
}

// Submit creates the order. When no rider was chosen manually the
// selector runs; a nearest rider within threshold is attached at
// creation, otherwise the booking is blocked until the client picks one.
func (s *Service) Submit(ctx context.Context, req Request) (*models.Order, error) {
	if len(req.Packages) == 0 {
		return nil, ErrNoPackages
	}

	quote, err := s.Quote(ctx, req.Packages)
	if err != nil {
		return nil, err
	}

	riderID := req.RiderID
	if riderID == nil {
		if !quote.Decision.Auto {
			return nil, ErrManualSelectionRequired
		}
		id := quote.Decision.Candidate.RiderID
		riderID = &id
	} else {
		ok, err := s.directory.IsRider(ctx, *riderID)
		if err != nil {
			return nil, fmt.Errorf("verify rider: %w", err)
		}
		if !ok {
			return nil, ErrNotARider
		}
	}

	order := &models.Order{
		UserID:              req.UserID,
		VendorID:            req.VendorID,
		RiderID:             riderID,
		DeliveryAddressID:   req.DeliveryAddressID,
		TotalAmount:         quote.Price.Total,
		Status:              status.Pending,
		PaymentMethod:       req.PaymentMethod,
		PaymentStatus:       "unpaid",
		SpecialInstructions: req.SpecialInstructions,
		Items:               make([]models.OrderItem, 0, len(req.Packages)),
	}

	for _, p := range req.Packages {
		legPrice, err := s.pricer.Quote(ctx, geo.HaversineKm(p.Pickup, p.Dropoff))
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, models.OrderItem{
			Kind:            models.ItemKindPackage,
			Quantity:        p.Quantity,
			Price:           legPrice.Total,
			PickupAddress:   p.PickupAddress,
			PickupLat:       p.Pickup.Lat,
			PickupLng:       p.Pickup.Lng,
			DropoffAddress:  p.DropoffAddress,
			DropoffLat:      p.Dropoff.Lat,
			DropoffLng:      p.Dropoff.Lng,
			ItemDescription: p.Description,
		})
	}

	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Float64("total", order.TotalAmount),
		zap.Int("packages", len(order.Items)))

	if s.events != nil {
		ev := &repository.OrderEvent{
			OrderID:   order.ID,
			To:        order.Status,
			ActorID:   order.UserID,
			ActorRole: status.RoleUser,
		}
		if order.RiderID != nil {
			ev.RiderID = *order.RiderID
		}
		if err := s.events.AppendOrderEvent(ctx, ev); err != nil {
			s.logger.Warn("append booking event", zap.Error(err))
		}
	}
	if s.bridge != nil {
		ev := realtime.OrderEvent{OrderID: order.ID, Status: order.Status, Order: order}
		if order.RiderID != nil {
			ev.RiderID = *order.RiderID
		}
		s.bridge.PublishOrderEvent(ctx, ev)
	}

	return order, nil
}
