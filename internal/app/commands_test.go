package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city_weather/internal/app"
	"city_weather/internal/domain"
)

func TestRunService_RecordCollection(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := app.NewRunService(repo, cache)

	run, err := svc.Start(context.Background(), domain.RunCollect, "output_data/cities.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	res := app.CollectResult{
		Records:  []domain.CityRecord{{City: "paris"}, {City: "hilo"}},
		Attempts: []app.Attempt{{City: "paris"}, {City: "atlantis", Err: domain.ErrLookupFailure}, {City: "hilo"}},
	}
	require.NoError(t, svc.RecordCollection(context.Background(), run, res))

	rows := repo.cities[run.ID]
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].ID)
	assert.Equal(t, 1, rows[1].ID)
	assert.Equal(t, 3, repo.runs[run.ID].Attempted)
	assert.Equal(t, 2, repo.runs[run.ID].Succeeded)
	assert.Contains(t, cache.dels, "cities:"+run.ID)
}

func TestRunService_RecordHotels(t *testing.T) {
	repo := newFakeRepo()
	svc := app.NewRunService(repo, nil)

	run, err := svc.Start(context.Background(), domain.RunVacation, "output_data/cities.csv")
	require.NoError(t, err)

	res := app.EnrichResult{
		Hotels: []domain.HotelRecord{{City: "a", HotelName: "Inn"}, {City: "b", HotelName: domain.NoHotelFound}},
		Attempts: []app.HotelAttempt{
			{City: "a", HotelName: "Inn"},
			{City: "b", HotelName: domain.NoHotelFound, Err: domain.ErrNoResultFound},
		},
	}
	require.NoError(t, svc.RecordHotels(context.Background(), run, res))
	assert.Len(t, repo.hotels[run.ID], 2)
	assert.Equal(t, 1, repo.runs[run.ID].Succeeded)
}
