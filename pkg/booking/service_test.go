package booking

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/geo"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/match"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/pricing"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/realtime"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/repository"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

type fakeRiderSource struct {
	candidates []match.Candidate
}

func (f *fakeRiderSource) NearbyRiders(ctx context.Context, center geo.Coordinate, radiusKm float64, limit int) ([]match.Candidate, error) {
	return f.candidates, nil
}

type fakeDirectory struct {
	riders map[string]bool
}

func (f *fakeDirectory) IsRider(ctx context.Context, id string) (bool, error) {
	return f.riders[id], nil
}

type fakePricer struct {
	err error
}

func (f *fakePricer) Quote(ctx context.Context, distanceKm float64) (*pricing.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &pricing.Quote{DistanceKm: distanceKm, RatePerKm: 100, Total: distanceKm * 100}, nil
}

type fakeOrderCreator struct {
	created *models.Order
	err     error
}

func (f *fakeOrderCreator) CreateWithItems(ctx context.Context, order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	order.ID = "order-1"
	f.created = order
	return nil
}

type fakeEventLog struct {
	events []*repository.OrderEvent
}

func (f *fakeEventLog) AppendOrderEvent(ctx context.Context, ev *repository.OrderEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type fakePublisher struct {
	published []realtime.OrderEvent
}

func (f *fakePublisher) PublishOrderEvent(ctx context.Context, ev realtime.OrderEvent) {
	f.published = append(f.published, ev)
}

var testPackages = []PackageInput{{
	PickupAddress:  "pickup",
	Pickup:         geo.Coordinate{Lat: 6.74, Lng: 6.13},
	DropoffAddress: "dropoff",
	Dropoff:        geo.Coordinate{Lat: 6.75, Lng: 6.14},
	Quantity:       1,
}}

func newTestService(candidates []match.Candidate, creator *fakeOrderCreator) (*Service, *fakeEventLog, *fakePublisher) {
	events := &fakeEventLog{}
	pub := &fakePublisher{}
	svc := NewService(
		&fakeRiderSource{candidates: candidates},
		&fakeDirectory{riders: map[string]bool{"rider-7": true}},
		&fakePricer{},
		creator,
		events,
		pub,
		match.NewSelector(2.0),
		10,
		zap.NewNop(),
	)
	return svc, events, pub
}

func TestSubmit_AutoAssignsNearestRider(t *testing.T) {
	creator := &fakeOrderCreator{}
	svc, events, pub := newTestService([]match.Candidate{
		{RiderID: "1", DistanceKm: 1.2},
		{RiderID: "2", DistanceKm: 0.9},
	}, creator)

	order, err := svc.Submit(context.Background(), Request{
		UserID:   "user-1",
		Packages: testPackages,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.RiderID == nil || *order.RiderID != "2" {
		t.Fatalf("expected rider 2 auto-assigned, got %+v", order.RiderID)
	}
	if order.Status != status.Pending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	if creator.created == nil || len(creator.created.Items) != 1 {
		t.Fatalf("expected one item created, got %+v", creator.created)
	}
	if len(events.events) != 1 || events.events[0].RiderID != "2" {
		t.Fatalf("expected created event with rider, got %+v", events.events)
	}
	if len(pub.published) != 1 || pub.published[0].OrderID != "order-1" {
		t.Fatalf("expected publish for created order, got %+v", pub.published)
	}
}

func TestSubmit_BlocksWhenManualSelectionRequired(t *testing.T) {
	creator := &fakeOrderCreator{}
	svc, _, _ := newTestService([]match.Candidate{
		{RiderID: "1", DistanceKm: 5.0},
	}, creator)

	_, err := svc.Submit(context.Background(), Request{
		UserID:   "user-1",
		Packages: testPackages,
	})
	if !errors.Is(err, ErrManualSelectionRequired) {
		t.Fatalf("expected ErrManualSelectionRequired, got %v", err)
	}
	if creator.created != nil {
		t.Fatal("booking must not be created without a rider choice")
	}
}

func TestSubmit_ManualRiderBypassesSelector(t *testing.T) {
	creator := &fakeOrderCreator{}
	svc, _, _ := newTestService([]match.Candidate{
		{RiderID: "1", DistanceKm: 5.0},
	}, creator)

	rider := "rider-7"
	order, err := svc.Submit(context.Background(), Request{
		UserID:   "user-1",
		RiderID:  &rider,
		Packages: testPackages,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.RiderID == nil || *order.RiderID != "rider-7" {
		t.Fatalf("expected manual rider kept, got %+v", order.RiderID)
	}
}

func TestSubmit_ManualRiderMustHaveRiderRole(t *testing.T) {
	creator := &fakeOrderCreator{}
	svc, _, _ := newTestService(nil, creator)

	impostor := "vendor-3"
	_, err := svc.Submit(context.Background(), Request{
		UserID:   "user-1",
		RiderID:  &impostor,
		Packages: testPackages,
	})
	if !errors.Is(err, ErrNotARider) {
		t.Fatalf("expected ErrNotARider, got %v", err)
	}
}

func TestSubmit_EmptyRiderDirectory(t *testing.T) {
	creator := &fakeOrderCreator{}
	svc, _, _ := newTestService(nil, creator)

	_, err := svc.Submit(context.Background(), Request{
		UserID:   "user-1",
		Packages: testPackages,
	})
	if !errors.Is(err, match.ErrNoRiders) {
		t.Fatalf("expected ErrNoRiders, got %v", err)
	}
}

func TestSubmit_NoPackages(t *testing.T) {
	svc, _, _ := newTestService(nil, &fakeOrderCreator{})
	if _, err := svc.Submit(context.Background(), Request{UserID: "u"}); !errors.Is(err, ErrNoPackages) {
		t.Fatalf("expected ErrNoPackages, got %v", err)
	}
}

func TestQuote_PendingPricingBlocksBooking(t *testing.T) {
	svc := NewService(
		&fakeRiderSource{candidates: []match.Candidate{{RiderID: "1", DistanceKm: 1}}},
		&fakeDirectory{},
		&fakePricer{err: pricing.ErrConfigUnavailable},
		&fakeOrderCreator{},
		nil, nil,
		match.NewSelector(2.0),
		10,
		zap.NewNop(),
	)

	_, err := svc.Quote(context.Background(), testPackages)
	if !errors.Is(err, pricing.ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
}

func TestQuote_ReportsDistanceAndDecision(t *testing.T) {
	svc, _, _ := newTestService([]match.Candidate{
		{RiderID: "1", DistanceKm: 1.2},
		{RiderID: "2", DistanceKm: 0.9},
	}, &fakeOrderCreator{})

	q, err := svc.Quote(context.Background(), testPackages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.DistanceKm <= 0 {
		t.Fatalf("distance = %v, want > 0", q.DistanceKm)
	}
	if !q.Decision.Auto || q.Decision.Candidate.RiderID != "2" {
		t.Fatalf("unexpected decision: %+v", q.Decision)
	}
	if q.Price.Total != q.DistanceKm*100 {
		t.Fatalf("price total = %v, want distance * low rate", q.Price.Total)
	}
}
