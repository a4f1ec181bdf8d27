package app_test

import (
	"context"
	"errors"

	"city_weather/internal/domain"
)

// ---- capability stubs ----

type stubResolver map[domain.CityCoordinate]string

func (s stubResolver) NearestCity(_ context.Context, c domain.CityCoordinate) (domain.City, error) {
	name, ok := s[c]
	if !ok {
		return domain.City{}, domain.ErrNoResultFound
	}
	return domain.City{Name: name, Coord: c}, nil
}

type stubWeather map[string]map[string]any

func (s stubWeather) CurrentWeather(_ context.Context, city string) (map[string]any, error) {
	p, ok := s[city]
	if !ok {
		return nil, errors.Join(domain.ErrLookupFailure, errors.New("city not found"))
	}
	return p, nil
}

type stubSearch struct {
	places []map[string]any
	err    error
	calls  []domain.PlaceQuery
}

func (s *stubSearch) SearchPlaces(_ context.Context, q domain.PlaceQuery) ([]map[string]any, error) {
	s.calls = append(s.calls, q)
	return s.places, s.err
}

func fixedCoordinates(cs ...domain.CityCoordinate) func() domain.CityCoordinate {
	i := 0
	return func() domain.CityCoordinate {
		c := cs[i%len(cs)]
		i++
		return c
	}
}

func weatherPayload(lat, lon, tmax, hum, clouds, wind float64, country string, dt float64) map[string]any {
	return map[string]any{
		"coord":  map[string]any{"lat": lat, "lon": lon},
		"main":   map[string]any{"temp_max": tmax, "humidity": hum},
		"clouds": map[string]any{"all": clouds},
		"wind":   map[string]any{"speed": wind},
		"sys":    map[string]any{"country": country},
		"dt":     dt,
	}
}

func row(id int, city string, tmax, wind float64, clouds int) domain.DatasetRow {
	return domain.DatasetRow{ID: id, CityRecord: domain.CityRecord{
		City: city, Lat: float64(id), Lng: float64(-id), MaxTemp: tmax,
		Humidity: 50, Cloudiness: clouds, WindSpeed: wind, Country: "XX", Date: 1,
	}}
}

// ---- repository / cache fakes ----

type fakeRepo struct {
	runs   map[string]domain.Run
	cities map[string][]domain.DatasetRow
	hotels map[string][]domain.HotelRecord
	latest domain.Run
	reads  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		runs:   map[string]domain.Run{},
		cities: map[string][]domain.DatasetRow{},
		hotels: map[string][]domain.HotelRecord{},
	}
}

func (f *fakeRepo) CreateRun(ctx context.Context, r domain.Run) error {
	f.runs[r.ID] = r
	f.latest = r
	return nil
}
func (f *fakeRepo) FinishRun(ctx context.Context, id string, attempted, succeeded int) error {
	r, ok := f.runs[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Attempted, r.Succeeded = attempted, succeeded
	f.runs[id] = r
	return nil
}
func (f *fakeRepo) SaveCities(ctx context.Context, runID string, rows []domain.DatasetRow) error {
	f.cities[runID] = rows
	return nil
}
func (f *fakeRepo) SaveHotels(ctx context.Context, runID string, hs []domain.HotelRecord) error {
	f.hotels[runID] = hs
	return nil
}
func (f *fakeRepo) GetRun(ctx context.Context, id string) (domain.Run, error) {
	f.reads++
	r, ok := f.runs[id]
	if !ok {
		return domain.Run{}, domain.ErrNotFound
	}
	return r, nil
}
func (f *fakeRepo) LatestRun(ctx context.Context, kind domain.RunKind) (domain.Run, error) {
	f.reads++
	if f.latest.ID == "" {
		return domain.Run{}, domain.ErrNotFound
	}
	return f.latest, nil
}
func (f *fakeRepo) ListCities(ctx context.Context, runID string) ([]domain.DatasetRow, error) {
	f.reads++
	return f.cities[runID], nil
}
func (f *fakeRepo) ListHotels(ctx context.Context, runID string) ([]domain.HotelRecord, error) {
	f.reads++
	return f.hotels[runID], nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Run:
		*d = v.(domain.Run)
	case *[]domain.DatasetRow:
		*d = v.([]domain.DatasetRow)
	case *[]domain.HotelRecord:
		*d = v.([]domain.HotelRecord)
	default:
		return false, nil
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}
