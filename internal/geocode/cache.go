package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_intake/internal/models"
	"github.com/shenikar/incident_intake/internal/service"
	"github.com/sirupsen/logrus"
)

// CachedGeocoder кеширует результаты в Redis, включая "не найдено".
// Ошибки нижележащего геокодера не кешируются.
type CachedGeocoder struct {
	next        service.Geocoder
	redisClient *redis.Client
	ttl         time.Duration
	logger      *logrus.Logger
}

func NewCachedGeocoder(next service.Geocoder, redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

func geocodeCacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// GeocodeAddress читает из кеша, при промахе обращается к геокодеру и сохраняет результат
func (c *CachedGeocoder) GeocodeAddress(ctx context.Context, address string) (*models.GeocodeResult, error) {
	key := geocodeCacheKey(address)
	log := c.logger.WithFields(logrus.Fields{
		"component": "geocode_cache",
		"key":       key,
	})

	val, err := c.redisClient.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached *models.GeocodeResult
		if err := json.Unmarshal(val, &cached); err == nil {
			return cached, nil
		}
		log.Warn("Corrupted geocode cache entry, refreshing")
	case !errors.Is(err, redis.Nil):
		log.WithError(err).Warn("Failed to read geocode cache")
	}

	result, err := c.next.GeocodeAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, key, result); err != nil {
		log.WithError(err).Warn("Failed to write geocode cache")
	}
	return result, nil
}

func (c *CachedGeocoder) store(ctx context.Context, key string, result *models.GeocodeResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode result: %w", err)
	}
	return c.redisClient.Set(ctx, key, payload, c.ttl).Err()
}
