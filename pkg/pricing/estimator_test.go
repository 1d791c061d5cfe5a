package pricing

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
)

var testConfig = &models.RateConfig{
	LowRatePerKm:  100,
	HighRatePerKm: 80,
	ThresholdKm:   5,
}

func TestQuoteForDistance_BelowThreshold(t *testing.T) {
	q := QuoteForDistance(testConfig, 3)
	if q.RatePerKm != 100 {
		t.Fatalf("rate = %v, want low rate", q.RatePerKm)
	}
	if math.Abs(q.Total-300) > 1e-9 {
		t.Fatalf("total = %v, want 300", q.Total)
	}
}

func TestQuoteForDistance_AboveThreshold(t *testing.T) {
	q := QuoteForDistance(testConfig, 8)
	if q.RatePerKm != 80 {
		t.Fatalf("rate = %v, want high rate", q.RatePerKm)
	}
	if math.Abs(q.Total-640) > 1e-9 {
		t.Fatalf("total = %v, want 640", q.Total)
	}
}

func TestQuoteForDistance_ExactlyAtThresholdUsesLowRate(t *testing.T) {
	q := QuoteForDistance(testConfig, 5)
	if q.RatePerKm != 100 {
		t.Fatalf("rate at threshold = %v, want low rate", q.RatePerKm)
	}
}

type fakeSource struct {
	rc  *models.RateConfig
	err error
}

func (f *fakeSource) GetLatest(ctx context.Context) (*models.RateConfig, error) {
	return f.rc, f.err
}

type fakeCache struct {
	rc     *models.RateConfig
	stored *models.RateConfig
}

func (f *fakeCache) GetCachedRateConfig(ctx context.Context) (*models.RateConfig, error) {
	return f.rc, nil
}

func (f *fakeCache) CacheRateConfig(ctx context.Context, rc *models.RateConfig, ttl time.Duration) error {
	f.stored = rc
	return nil
}

func TestEstimator_CacheMissFallsThroughAndRefills(t *testing.T) {
	cache := &fakeCache{}
	e := NewEstimator(&fakeSource{rc: testConfig}, cache, time.Minute, zap.NewNop())

	q, err := e.Quote(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Total != 300 {
		t.Fatalf("total = %v, want 300", q.Total)
	}
	if cache.stored != testConfig {
		t.Fatal("expected cache refill after miss")
	}
}

func TestEstimator_CacheHitSkipsSource(t *testing.T) {
	e := NewEstimator(&fakeSource{err: errors.New("db down")}, &fakeCache{rc: testConfig}, time.Minute, zap.NewNop())

	if _, err := e.Quote(context.Background(), 3); err != nil {
		t.Fatalf("cache hit should not touch the source: %v", err)
	}
}

func TestEstimator_UnavailableConfig(t *testing.T) {
	e := NewEstimator(&fakeSource{}, nil, time.Minute, zap.NewNop())

	_, err := e.Quote(context.Background(), 3)
	if !errors.Is(err, ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
}
