package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"city_weather/internal/domain"
)

// progress lines are grouped in sets of this many cities
const logSetSize = 50

// Attempt is the outcome of one weather lookup.
type Attempt struct {
	Index int
	City  string
	Err   error
}

func (a Attempt) OK() bool { return a.Err == nil }

// Record and set numbers as shown in progress logs, both 1-based.
func (a Attempt) Record() int { return a.Index%logSetSize + 1 }
func (a Attempt) Set() int    { return a.Index/logSetSize + 1 }

type CollectResult struct {
	Records  []domain.CityRecord
	Attempts []Attempt
}

func (r CollectResult) Failed() int { return len(r.Attempts) - len(r.Records) }

type Collector struct {
	weather domain.WeatherLookup
	observe func(Attempt)
}

func NewCollector(w domain.WeatherLookup) *Collector {
	return &Collector{weather: w, observe: LogAttempt}
}

// WithObserver replaces the per-attempt logger. nil disables it.
func (c *Collector) WithObserver(fn func(Attempt)) *Collector {
	c.observe = fn
	return c
}

// Collect issues one lookup per city, in order. A failed or incomplete
// lookup skips that city; it is never retried here.
func (c *Collector) Collect(ctx context.Context, cities []string) (CollectResult, error) {
	res := CollectResult{
		Records:  make([]domain.CityRecord, 0, len(cities)),
		Attempts: make([]Attempt, 0, len(cities)),
	}
	for i, city := range cities {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		a := Attempt{Index: i, City: city}
		rec, err := c.lookup(ctx, city)
		if err != nil {
			a.Err = err
		} else {
			res.Records = append(res.Records, rec)
		}
		res.Attempts = append(res.Attempts, a)
		if c.observe != nil {
			c.observe(a)
		}
	}
	return res, nil
}

func (c *Collector) lookup(ctx context.Context, city string) (domain.CityRecord, error) {
	p, err := c.weather.CurrentWeather(ctx, city)
	if err != nil {
		return domain.CityRecord{}, fmt.Errorf("weather %q: %w", city, err)
	}
	if p == nil {
		return domain.CityRecord{}, fmt.Errorf("weather %q: %w: empty payload", city, domain.ErrIncompleteData)
	}
	rec, err := mapWeather(city, p)
	if err != nil {
		return domain.CityRecord{}, fmt.Errorf("weather %q: %w", city, err)
	}
	return rec, nil
}

// LogAttempt is the default Collector observer.
func LogAttempt(a Attempt) {
	ev := log.Info()
	if !a.OK() {
		ev = log.Warn().Err(a.Err)
	}
	ev.Int("record", a.Record()).
		Int("set", a.Set()).
		Str("city", a.City).
		Bool("ok", a.OK()).
		Msg("processing record")
}
