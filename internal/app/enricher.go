package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"city_weather/internal/domain"
)

const (
	DefaultHotelRadiusMeters = 10000
	DefaultHotelCategory     = "accommodation.hotel"
	DefaultHotelLimit        = 20
)

// HotelAttempt keeps the reason a row fell back to the sentinel, which the
// HotelRecord itself does not distinguish.
type HotelAttempt struct {
	CityID    int
	City      string
	HotelName string
	Err       error
}

func (a HotelAttempt) Found() bool { return a.Err == nil }

type EnrichResult struct {
	Hotels   []domain.HotelRecord
	Attempts []HotelAttempt
}

type Enricher struct {
	search   domain.PlaceSearch
	radius   int
	category string
	limit    int
	observe  func(HotelAttempt)
}

func NewEnricher(s domain.PlaceSearch) *Enricher {
	return &Enricher{
		search:   s,
		radius:   DefaultHotelRadiusMeters,
		category: DefaultHotelCategory,
		limit:    DefaultHotelLimit,
		observe:  LogHotel,
	}
}

// WithObserver replaces the per-row logger. nil disables it.
func (e *Enricher) WithObserver(fn func(HotelAttempt)) *Enricher {
	e.observe = fn
	return e
}

// Enrich issues one search per row, in order, and yields one HotelRecord
// per row. Only the first ranked result is used.
func (e *Enricher) Enrich(ctx context.Context, rows []domain.DatasetRow) (EnrichResult, error) {
	res := EnrichResult{
		Hotels:   make([]domain.HotelRecord, 0, len(rows)),
		Attempts: make([]HotelAttempt, 0, len(rows)),
	}
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		h := domain.HotelRecord{
			CityID:   r.ID,
			City:     r.City,
			Country:  r.Country,
			Lat:      r.Lat,
			Lng:      r.Lng,
			Humidity: r.Humidity,
		}
		name, err := e.nearestHotel(ctx, domain.CityCoordinate{Lat: r.Lat, Lng: r.Lng})
		if err != nil {
			name = domain.NoHotelFound
		}
		h.HotelName = name

		a := HotelAttempt{CityID: r.ID, City: r.City, HotelName: name, Err: err}
		res.Hotels = append(res.Hotels, h)
		res.Attempts = append(res.Attempts, a)
		if e.observe != nil {
			e.observe(a)
		}
	}
	return res, nil
}

func (e *Enricher) nearestHotel(ctx context.Context, at domain.CityCoordinate) (string, error) {
	places, err := e.search.SearchPlaces(ctx, domain.PlaceQuery{
		Center:       at,
		RadiusMeters: e.radius,
		Category:     e.category,
		Limit:        e.limit,
		Bias:         true,
	})
	if err != nil {
		return "", fmt.Errorf("hotel search: %w", err)
	}
	if len(places) == 0 {
		return "", domain.ErrNoResultFound
	}
	p, err := mapPlace(places[0])
	if err != nil {
		return "", fmt.Errorf("hotel search: %w", err)
	}
	return p.Name, nil
}

// LogHotel is the default Enricher observer.
func LogHotel(a HotelAttempt) {
	ev := log.Info()
	if !a.Found() {
		ev = ev.AnErr("reason", a.Err)
	}
	ev.Str("city", a.City).Str("hotel", a.HotelName).Msg("nearest hotel")
}
