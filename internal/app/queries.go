package app

import (
	"context"
	"time"

	"city_weather/internal/domain"
)

// Latest selects the most recent run of a kind instead of a run ID.
const Latest = "latest"

type QueryService struct {
	repo     domain.RunRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.RunRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// Run resolves id, or the newest run of kind when id is Latest. Latest is
// never cached; runs are.
func (s *QueryService) Run(ctx context.Context, id string, kind domain.RunKind) (domain.Run, error) {
	if id == Latest {
		return s.repo.LatestRun(ctx, kind)
	}
	return cached(ctx, s, runKey(id), func() (domain.Run, error) { return s.repo.GetRun(ctx, id) })
}

func (s *QueryService) Cities(ctx context.Context, runID string) ([]domain.DatasetRow, error) {
	return cached(ctx, s, citiesKey(runID), func() ([]domain.DatasetRow, error) {
		return s.repo.ListCities(ctx, runID)
	})
}

func (s *QueryService) Hotels(ctx context.Context, runID string) ([]domain.HotelRecord, error) {
	return cached(ctx, s, hotelsKey(runID), func() ([]domain.HotelRecord, error) {
		return s.repo.ListHotels(ctx, runID)
	})
}

func (s *QueryService) LatitudeFits(ctx context.Context, runID string) ([]LatitudeFit, error) {
	return cached(ctx, s, fitsKey(runID), func() ([]LatitudeFit, error) {
		rows, err := s.Cities(ctx, runID)
		if err != nil {
			return nil, err
		}
		recs := make([]domain.CityRecord, 0, len(rows))
		for _, r := range rows {
			if r.Complete() {
				recs = append(recs, r.CityRecord)
			}
		}
		return LatitudeFits(recs), nil
	})
}

// cached is a read-through helper; cache errors fall back to the repo.
func cached[T any](ctx context.Context, s *QueryService, key string, load func() (T, error)) (T, error) {
	var out T
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	}
	return v, nil
}
