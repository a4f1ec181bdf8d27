package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city_weather/internal/app"
	"city_weather/internal/domain"
)

func TestCollector_SkipsFailedCity(t *testing.T) {
	w := stubWeather{"paris": weatherPayload(48.85, 2.35, 18.4, 71, 0, 3.6, "FR", 1666094400)}
	res, err := app.NewCollector(w).WithObserver(nil).Collect(context.Background(), []string{"paris", "atlantis"})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, domain.CityRecord{
		City: "paris", Lat: 48.85, Lng: 2.35, MaxTemp: 18.4, Humidity: 71,
		Cloudiness: 0, WindSpeed: 3.6, Country: "FR", Date: 1666094400,
	}, res.Records[0])

	require.Len(t, res.Attempts, 2)
	assert.True(t, res.Attempts[0].OK())
	assert.False(t, res.Attempts[1].OK())
	assert.ErrorIs(t, res.Attempts[1].Err, domain.ErrLookupFailure)
	assert.Equal(t, 1, res.Failed())
}

func TestCollector_MissingFieldIsIncomplete(t *testing.T) {
	p := weatherPayload(1, 2, 3, 4, 5, 6, "XX", 7)
	delete(p["wind"].(map[string]any), "speed")
	w := stubWeather{"tiksi": p}

	res, err := app.NewCollector(w).WithObserver(nil).Collect(context.Background(), []string{"tiksi"})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.ErrorIs(t, res.Attempts[0].Err, domain.ErrIncompleteData)
}

func TestCollector_OrderAndSubset(t *testing.T) {
	w := stubWeather{
		"a": weatherPayload(1, 1, 1, 1, 1, 1, "AA", 1),
		"c": weatherPayload(3, 3, 3, 3, 3, 3, "CC", 3),
		"d": weatherPayload(4, 4, 4, 4, 4, 4, "DD", 4),
	}
	in := []string{"a", "b", "c", "d"}
	var observed []string
	res, err := app.NewCollector(w).
		WithObserver(func(a app.Attempt) { observed = append(observed, a.City) }).
		Collect(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, in, observed)
	assert.LessOrEqual(t, len(res.Records), len(in))
	var got []string
	for _, r := range res.Records {
		got = append(got, r.City)
	}
	assert.Equal(t, []string{"a", "c", "d"}, got)
}

func TestCollector_Empty(t *testing.T) {
	res, err := app.NewCollector(stubWeather{}).WithObserver(nil).Collect(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Attempts)
}

func TestAttempt_RecordAndSet(t *testing.T) {
	assert.Equal(t, 1, app.Attempt{Index: 0}.Record())
	assert.Equal(t, 1, app.Attempt{Index: 0}.Set())
	assert.Equal(t, 50, app.Attempt{Index: 49}.Record())
	assert.Equal(t, 1, app.Attempt{Index: 50}.Record())
	assert.Equal(t, 2, app.Attempt{Index: 50}.Set())
}
