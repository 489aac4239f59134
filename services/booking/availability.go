package booking

import (
	"context"
	"encoding/json"
	"time"

	experienceRepo "roamly/database/repository/experience"
	"roamly/models"
	"roamly/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityService resolves provider weekday patterns with a
// per-experience cache, so repeated wizard mounts for the same experience hit
// Redis instead of the catalog.
type AvailabilityService struct {
	Repo  experienceRepo.ExperienceRepository
	Cache *redis.Client
	TTL   time.Duration
}

// NewAvailabilityService wires the service with the default cache TTL.
func NewAvailabilityService(repo experienceRepo.ExperienceRepository, cache *redis.Client) *AvailabilityService {
	return &AvailabilityService{Repo: repo, Cache: cache, TTL: utils.AvailabilityCacheTTL}
}

// FetchWeekdays returns the weekday pattern for an experience together with a
// deny-all flag. Any failure degrades to (empty pattern, true): with the flag
// set no date can become selectable, whatever the pattern says. There is no
// retry; the next explicit user action refetches.
func (s *AvailabilityService) FetchWeekdays(ctx context.Context, experienceID string) (models.ProviderAvailability, bool) {
	logger := utils.GetLogger()
	key := utils.AvailabilityCachePrefix + experienceID

	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var pa models.ProviderAvailability
			if err := json.Unmarshal([]byte(raw), &pa); err == nil {
				return pa, false
			}
			logger.Warn("availability cache entry corrupt, refetching",
				zap.String("experienceID", experienceID))
		}
	}

	pa, err := s.Repo.GetAvailability(experienceID)
	if err != nil {
		fetchErr := &AvailabilityFetchError{ExperienceID: experienceID, Err: err}
		logger.Error("availability fetch failed, denying all dates", zap.Error(fetchErr))
		return models.ProviderAvailability{ExperienceID: experienceID}, true
	}

	if s.Cache != nil {
		if data, err := json.Marshal(pa); err == nil {
			ttl := s.TTL
			if ttl == 0 {
				ttl = utils.AvailabilityCacheTTL
			}
			if err := s.Cache.Set(ctx, key, data, ttl).Err(); err != nil {
				logger.Warn("failed to cache availability",
					zap.String("experienceID", experienceID), zap.Error(err))
			}
		}
	}

	return *pa, false
}
