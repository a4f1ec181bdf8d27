package gazetteer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city_weather/internal/adapters/gazetteer"
	"city_weather/internal/domain"
)

const sample = `country,city_name,latitude,longitude
fr,Paris,48.8566,2.3522
us,New York,40.7128,-74.0060
nz,Auckland,-36.8485,174.7633
fj,Suva,-18.1416,178.4419
`

func TestNearestCity(t *testing.T) {
	g, err := gazetteer.Load(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 4, g.Len())

	tests := []struct {
		name string
		at   domain.CityCoordinate
		want string
	}{
		{"near paris", domain.CityCoordinate{Lat: 49, Lng: 2}, "paris"},
		{"atlantic closer to new york", domain.CityCoordinate{Lat: 38, Lng: -60}, "new york"},
		{"across the antimeridian", domain.CityCoordinate{Lat: -18, Lng: -179.5}, "suva"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.NearestCity(context.Background(), tc.at)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Name)
			assert.Equal(t, tc.at, got.Coord)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	_, err := gazetteer.Load(strings.NewReader("country,city_name,latitude,longitude\n"))
	assert.Error(t, err)

	_, err = gazetteer.New(nil)
	assert.ErrorIs(t, err, gazetteer.ErrEmpty)
}
