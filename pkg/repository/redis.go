package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/config"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/geo"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/match"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
)

const (
	riderLocationsKey = "rider:locations"
	rateConfigKey     = "pricing:rate_config"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// Client exposes the underlying connection for the pub/sub bridge.
func (r *RedisRepository) Client() *redis.Client {
	return r.client
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// UpdateRiderLocation records a rider's latest position in the GEO set.
func (r *RedisRepository) UpdateRiderLocation(ctx context.Context, riderID string, at geo.Coordinate) error {
	return r.client.GeoAdd(ctx, riderLocationsKey, &redis.GeoLocation{
		Name:      riderID,
		Latitude:  at.Lat,
		Longitude: at.Lng,
	}).Err()
}

// NearbyRiders returns rider candidates within radiusKm of the center,
// nearest first, with distances filled in.
func (r *RedisRepository) NearbyRiders(ctx context.Context, center geo.Coordinate, radiusKm float64, limit int) ([]match.Candidate, error) {
	if limit <= 0 {
		limit = 25
	}
	locations, err := r.client.GeoSearchLocation(ctx, riderLocationsKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   center.Lat,
			Longitude:  center.Lng,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search riders: %w", err)
	}

	candidates := make([]match.Candidate, 0, len(locations))
	for _, loc := range locations {
		candidates = append(candidates, match.Candidate{
			RiderID:    loc.Name,
			DistanceKm: loc.Dist,
		})
	}
	return candidates, nil
}

// RemoveRiderLocation drops a rider from the directory, e.g. on sign-out.
func (r *RedisRepository) RemoveRiderLocation(ctx context.Context, riderID string) error {
	return r.client.ZRem(ctx, riderLocationsKey, riderID).Err()
}

// CacheRateConfig stores the banded-rate configuration.
func (r *RedisRepository) CacheRateConfig(ctx context.Context, rc *models.RateConfig, ttl time.Duration) error {
	return r.SetJSON(ctx, rateConfigKey, rc, ttl)
}

// GetCachedRateConfig returns (nil, nil) on a cache miss.
func (r *RedisRepository) GetCachedRateConfig(ctx context.Context) (*models.RateConfig, error) {
	var rc models.RateConfig
	err := r.GetJSON(ctx, rateConfigKey, &rc)
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return &rc, nil
}
