package domain

import (
	"context"
	"time"
)

// CityResolver maps a coordinate to the nearest named place.
type CityResolver interface {
	NearestCity(ctx context.Context, c CityCoordinate) (City, error)
}

// WeatherLookup returns the raw current-weather payload for a city name.
type WeatherLookup interface {
	CurrentWeather(ctx context.Context, city string) (map[string]any, error)
}

// PlaceSearch returns the property objects of ranked places, in the order
// the provider ranked them.
type PlaceSearch interface {
	SearchPlaces(ctx context.Context, q PlaceQuery) ([]map[string]any, error)
}

type RunRepository interface {
	// Write paths
	CreateRun(ctx context.Context, r Run) error
	FinishRun(ctx context.Context, id string, attempted, succeeded int) error
	SaveCities(ctx context.Context, runID string, rows []DatasetRow) error
	SaveHotels(ctx context.Context, runID string, hs []HotelRecord) error

	// Read paths
	GetRun(ctx context.Context, id string) (Run, error)
	LatestRun(ctx context.Context, kind RunKind) (Run, error)
	ListCities(ctx context.Context, runID string) ([]DatasetRow, error)
	ListHotels(ctx context.Context, runID string) ([]HotelRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type RunKind string

const (
	RunCollect  RunKind = "collect"
	RunVacation RunKind = "vacation"
)

type Run struct {
	ID        string
	Kind      RunKind
	Source    string // dataset path the run read from or wrote to
	Attempted int
	Succeeded int
	CreatedAt time.Time
}
