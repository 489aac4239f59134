package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"roamly/models"
	"roamly/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAvailabilityFixture(t *testing.T, repo *fakeExperienceRepo) (*AvailabilityService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
	return &AvailabilityService{Repo: repo, Cache: cache, TTL: time.Minute}, mr
}

func TestFetchWeekdaysCachesResult(t *testing.T) {
	repo := &fakeExperienceRepo{
		avail: &models.ProviderAvailability{ExperienceID: "exp-1", Weekdays: []string{"Saturday", "Sunday"}},
	}
	svc, _ := newAvailabilityFixture(t, repo)
	ctx := context.Background()

	pa, denied := svc.FetchWeekdays(ctx, "exp-1")
	require.False(t, denied)
	assert.Equal(t, []string{"Saturday", "Sunday"}, pa.Weekdays)
	assert.Equal(t, 1, repo.availCalls)

	// second fetch is served from the cache
	pa, denied = svc.FetchWeekdays(ctx, "exp-1")
	require.False(t, denied)
	assert.Equal(t, []string{"Saturday", "Sunday"}, pa.Weekdays)
	assert.Equal(t, 1, repo.availCalls)
}

func TestFetchWeekdaysRepoFailureDeniesAll(t *testing.T) {
	repo := &fakeExperienceRepo{availErr: errors.New("catalog down")}
	svc, _ := newAvailabilityFixture(t, repo)

	pa, denied := svc.FetchWeekdays(context.Background(), "exp-1")
	assert.True(t, denied)
	assert.Empty(t, pa.Weekdays)

	// failures are never cached; the next call hits the repo again
	_, denied = svc.FetchWeekdays(context.Background(), "exp-1")
	assert.True(t, denied)
	assert.Equal(t, 2, repo.availCalls)
}

func TestFetchWeekdaysCacheExpiry(t *testing.T) {
	repo := &fakeExperienceRepo{
		avail: &models.ProviderAvailability{ExperienceID: "exp-1", Weekdays: []string{"Monday"}},
	}
	svc, mr := newAvailabilityFixture(t, repo)
	ctx := context.Background()

	_, _ = svc.FetchWeekdays(ctx, "exp-1")
	require.Equal(t, 1, repo.availCalls)

	mr.FastForward(2 * time.Minute)

	_, denied := svc.FetchWeekdays(ctx, "exp-1")
	assert.False(t, denied)
	assert.Equal(t, 2, repo.availCalls)
}

func TestFetchWeekdaysCorruptCacheEntryRefetches(t *testing.T) {
	repo := &fakeExperienceRepo{
		avail: &models.ProviderAvailability{ExperienceID: "exp-1", Weekdays: []string{"Friday"}},
	}
	svc, mr := newAvailabilityFixture(t, repo)

	require.NoError(t, mr.Set(utils.AvailabilityCachePrefix+"exp-1", "{not json"))

	pa, denied := svc.FetchWeekdays(context.Background(), "exp-1")
	assert.False(t, denied)
	assert.Equal(t, []string{"Friday"}, pa.Weekdays)
	assert.Equal(t, 1, repo.availCalls)
}

func TestFetchWeekdaysNilCacheStillWorks(t *testing.T) {
	repo := &fakeExperienceRepo{
		avail: &models.ProviderAvailability{ExperienceID: "exp-1", Weekdays: []string{"Tuesday"}},
	}
	svc := &AvailabilityService{Repo: repo}

	pa, denied := svc.FetchWeekdays(context.Background(), "exp-1")
	assert.False(t, denied)
	assert.Equal(t, []string{"Tuesday"}, pa.Weekdays)
}
