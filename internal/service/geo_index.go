package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"lastwill-backend/config"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrPostalNotFound is returned when a postal code has no known coordinates
var ErrPostalNotFound = errors.New("postal code not found")

const (
	// RedisGeoKeyPrefix namespaces cached postal code resolutions
	RedisGeoKeyPrefix = "geo:postal:"

	// earthRadiusKm is the mean Earth radius used by the haversine formula
	earthRadiusKm = 6371.0
)

// GeoResolver resolves postal codes to coordinates and computes distances
type GeoResolver interface {
	Resolve(ctx context.Context, postalCode string) (entity.Coordinates, error)
	DistanceKm(a, b entity.Coordinates) float64
}

// GeoIndex serves postal-code-to-coordinate lookups from a Redis
// read-through cache over the postal_codes reference table. Lookups are
// bounded by a per-call timeout so a slow store degrades a single candidate
// instead of hanging the whole search.
type GeoIndex struct {
	db         *gorm.DB
	redis      *redis.Client
	log        *logrus.Logger
	postalRepo repository.PostalCodeRepository
	cacheTTL   time.Duration
	timeout    time.Duration
}

func NewGeoIndex(
	db *gorm.DB,
	redisClient *redis.Client,
	log *logrus.Logger,
	postalRepo repository.PostalCodeRepository,
	cfg config.EngineConfig,
) *GeoIndex {
	return &GeoIndex{
		db:         db,
		redis:      redisClient,
		log:        log,
		postalRepo: postalRepo,
		cacheTTL:   cfg.GeoCacheTTL,
		timeout:    cfg.GeoResolveTimeout,
	}
}

// Resolve looks up the coordinates of a postal code
func (g *GeoIndex) Resolve(ctx context.Context, postalCode string) (entity.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	key := RedisGeoKeyPrefix + postalCode

	cached, err := g.redis.Get(ctx, key).Result()
	if err == nil {
		var coords entity.Coordinates
		if err := json.Unmarshal([]byte(cached), &coords); err == nil {
			return coords, nil
		}
		g.log.Warnf("Corrupt geo cache entry for %s, falling through: %+v", postalCode, err)
	} else if err != redis.Nil {
		// Cache being down is not fatal, the reference table still answers
		g.log.Warnf("Failed to read geo cache for %s: %+v", postalCode, err)
	}

	postal, err := g.postalRepo.FindByCode(ctx, g.db, postalCode)
	if err != nil {
		return entity.Coordinates{}, fmt.Errorf("resolve postal code %s: %w", postalCode, err)
	}
	if postal == nil {
		return entity.Coordinates{}, ErrPostalNotFound
	}

	coords := postal.Coordinates()

	if payload, err := json.Marshal(coords); err == nil {
		if err := g.redis.Set(ctx, key, payload, g.cacheTTL).Err(); err != nil {
			g.log.Warnf("Failed to cache geo resolution for %s: %+v", postalCode, err)
		}
	}

	return coords, nil
}

// DistanceKm computes the great-circle distance between two coordinates
func (g *GeoIndex) DistanceKm(a, b entity.Coordinates) float64 {
	return HaversineKm(a, b)
}

// HaversineKm computes the great-circle distance between two coordinates
// using the haversine formula.
func HaversineKm(a, b entity.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
