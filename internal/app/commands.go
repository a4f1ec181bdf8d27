package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"city_weather/internal/domain"
)

// RunService records pipeline runs so the API can serve them later.
type RunService struct {
	repo  domain.RunRepository
	cache domain.Cache
	now   func() time.Time
}

func NewRunService(r domain.RunRepository, cache domain.Cache) *RunService {
	return &RunService{repo: r, cache: cache, now: time.Now}
}

func (s *RunService) Start(ctx context.Context, kind domain.RunKind, source string) (domain.Run, error) {
	run := domain.Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return domain.Run{}, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// RecordCollection stores the dataset rows of a collect run and closes it.
func (s *RunService) RecordCollection(ctx context.Context, run domain.Run, res CollectResult) error {
	if err := s.repo.SaveCities(ctx, run.ID, domain.RowsFromRecords(res.Records)); err != nil {
		return fmt.Errorf("save cities for run %s: %w", run.ID, err)
	}
	if err := s.repo.FinishRun(ctx, run.ID, len(res.Attempts), len(res.Records)); err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	s.invalidate(ctx, run.ID)
	return nil
}

// RecordHotels stores the hotel rows of a vacation run and closes it.
// Succeeded counts rows whose search found a hotel.
func (s *RunService) RecordHotels(ctx context.Context, run domain.Run, res EnrichResult) error {
	if err := s.repo.SaveHotels(ctx, run.ID, res.Hotels); err != nil {
		return fmt.Errorf("save hotels for run %s: %w", run.ID, err)
	}
	found := 0
	for _, a := range res.Attempts {
		if a.Found() {
			found++
		}
	}
	if err := s.repo.FinishRun(ctx, run.ID, len(res.Attempts), found); err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	s.invalidate(ctx, run.ID)
	return nil
}

func (s *RunService) invalidate(ctx context.Context, runID string) {
	if s.cache == nil {
		return
	}
	for _, k := range []string{runKey(runID), citiesKey(runID), hotelsKey(runID), fitsKey(runID)} {
		_ = s.cache.Del(ctx, k)
	}
}

func runKey(id string) string    { return "run:" + id }
func citiesKey(id string) string { return "cities:" + id }
func hotelsKey(id string) string { return "hotels:" + id }
func fitsKey(id string) string   { return "fits:" + id }
