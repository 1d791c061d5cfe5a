package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
)

// ErrConfigUnavailable is returned while the rate configuration cannot be
// resolved. Callers must treat pricing as pending and block booking
// confirmation until a quote succeeds.
var ErrConfigUnavailable = errors.New("rate configuration unavailable")

// Quote is a priced trip.
type Quote struct {
	DistanceKm float64 `json:"distance_km"`
	RatePerKm  float64 `json:"rate_per_km"`
	Total      float64 `json:"total"`
}

// ConfigSource resolves the authoritative rate configuration.
type ConfigSource interface {
	GetLatest(ctx context.Context) (*models.RateConfig, error)
}

// ConfigCache is the read-through cache in front of the source.
type ConfigCache interface {
	GetCachedRateConfig(ctx context.Context) (*models.RateConfig, error)
	CacheRateConfig(ctx context.Context, rc *models.RateConfig, ttl time.Duration) error
}

// Estimator maps trip distance to a price using the banded rate: one
// rate below the distance threshold, another above it.
type Estimator struct {
	source ConfigSource
	cache  ConfigCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewEstimator(source ConfigSource, cache ConfigCache, ttl time.Duration, logger *zap.Logger) *Estimator {
	return &Estimator{source: source, cache: cache, ttl: ttl, logger: logger}
}

// QuoteForDistance prices a distance against a resolved configuration.
// Distances up to and including the threshold use the low rate; only
// strictly greater distances use the high rate.
func QuoteForDistance(rc *models.RateConfig, distanceKm float64) Quote {
	rate := rc.LowRatePerKm
	if distanceKm > rc.ThresholdKm {
		rate = rc.HighRatePerKm
	}
	return Quote{
		DistanceKm: distanceKm,
		RatePerKm:  rate,
		Total:      distanceKm * rate,
	}
}

// Quote resolves the rate configuration and prices the distance. The
// cache is consulted first; a miss falls through to the source and
// refills the cache best-effort.
func (e *Estimator) Quote(ctx context.Context, distanceKm float64) (*Quote, error) {
	rc, err := e.config(ctx)
	if err != nil {
		return nil, err
	}
	q := QuoteForDistance(rc, distanceKm)
	return &q, nil
}

func (e *Estimator) config(ctx context.Context) (*models.RateConfig, error) {
	if e.cache != nil {
		rc, err := e.cache.GetCachedRateConfig(ctx)
		if err == nil && rc != nil {
			return rc, nil
		}
		if err != nil {
			e.logger.Warn("rate config cache read failed", zap.Error(err))
		}
	}

	rc, err := e.source.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	if rc == nil {
		return nil, ErrConfigUnavailable
	}

	if e.cache != nil {
		if err := e.cache.CacheRateConfig(ctx, rc, e.ttl); err != nil {
			e.logger.Warn("rate config cache write failed", zap.Error(err))
		}
	}
	return rc, nil
}
