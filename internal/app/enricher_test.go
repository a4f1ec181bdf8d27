package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city_weather/internal/app"
	"city_weather/internal/domain"
)

func TestEnricher_FirstResultWins(t *testing.T) {
	s := &stubSearch{places: []map[string]any{{"name": "Grand Hotel"}, {"name": "Other"}}}
	res, err := app.NewEnricher(s).WithObserver(nil).Enrich(context.Background(), []domain.DatasetRow{row(3, "hilo", 25, 1, 0)})
	require.NoError(t, err)

	require.Len(t, res.Hotels, 1)
	h := res.Hotels[0]
	assert.Equal(t, "Grand Hotel", h.HotelName)
	assert.Equal(t, 3, h.CityID)
	assert.Equal(t, "hilo", h.City)
	assert.True(t, res.Attempts[0].Found())

	require.Len(t, s.calls, 1)
	q := s.calls[0]
	assert.Equal(t, 10000, q.RadiusMeters)
	assert.Equal(t, "accommodation.hotel", q.Category)
	assert.Equal(t, 20, q.Limit)
	assert.True(t, q.Bias)
	assert.Equal(t, domain.CityCoordinate{Lat: 3, Lng: -3}, q.Center)
}

func TestEnricher_EmptyResultUsesSentinel(t *testing.T) {
	s := &stubSearch{places: []map[string]any{}}
	res, err := app.NewEnricher(s).WithObserver(nil).Enrich(context.Background(), []domain.DatasetRow{row(0, "tiksi", 22, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, domain.NoHotelFound, res.Hotels[0].HotelName)
	assert.ErrorIs(t, res.Attempts[0].Err, domain.ErrNoResultFound)
}

func TestEnricher_FailureUsesSentinel(t *testing.T) {
	s := &stubSearch{err: errors.Join(domain.ErrLookupFailure, context.DeadlineExceeded)}
	res, err := app.NewEnricher(s).WithObserver(nil).Enrich(context.Background(), []domain.DatasetRow{row(0, "tiksi", 22, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, domain.NoHotelFound, res.Hotels[0].HotelName)
	assert.ErrorIs(t, res.Attempts[0].Err, domain.ErrLookupFailure)
}

func TestEnricher_MissingNameUsesSentinel(t *testing.T) {
	s := &stubSearch{places: []map[string]any{{"formatted": "1 Main St"}}}
	res, err := app.NewEnricher(s).WithObserver(nil).Enrich(context.Background(), []domain.DatasetRow{row(0, "tiksi", 22, 1, 0)})
	require.NoError(t, err)
	assert.Equal(t, domain.NoHotelFound, res.Hotels[0].HotelName)
	assert.ErrorIs(t, res.Attempts[0].Err, domain.ErrIncompleteData)
}

func TestEnricher_AlternateNamesDoNotReplaceName(t *testing.T) {
	s := &stubSearch{places: []map[string]any{
		{"datasource": map[string]any{"raw": map[string]any{"name": "Alias Inn"}}},
		{"name_international": map[string]any{"en": "Intl Inn"}, "name": "  "},
		{"name": "Second Hotel"},
	}}
	res, err := app.NewEnricher(s).WithObserver(nil).Enrich(context.Background(), []domain.DatasetRow{row(0, "tiksi", 22, 1, 0)})
	require.NoError(t, err)
	require.Len(t, res.Hotels, 1)
	assert.Equal(t, domain.NoHotelFound, res.Hotels[0].HotelName)
	assert.ErrorIs(t, res.Attempts[0].Err, domain.ErrIncompleteData)
}

func TestEnricher_OneRequestPerRowNoDedup(t *testing.T) {
	s := &stubSearch{places: []map[string]any{{"name": "Inn"}}}
	rows := []domain.DatasetRow{row(1, "a", 22, 1, 0), row(1, "a", 22, 1, 0), row(2, "b", 22, 1, 0)}
	var seen []string
	res, err := app.NewEnricher(s).WithObserver(func(a app.HotelAttempt) { seen = append(seen, a.City) }).
		Enrich(context.Background(), rows)
	require.NoError(t, err)
	assert.Len(t, s.calls, 3)
	assert.Len(t, res.Hotels, 3)
	assert.Equal(t, []string{"a", "a", "b"}, seen)
}
