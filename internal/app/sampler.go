package app

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"city_weather/internal/domain"
)

// DefaultSampleSize matches the number of random draws per collection run.
const DefaultSampleSize = 1500

// CoordinateSource yields one coordinate per call.
type CoordinateSource func() domain.CityCoordinate

// UniformCoordinates draws latitude from [-90, 90) and longitude from
// [-180, 180) uniformly.
func UniformCoordinates(rng *rand.Rand) CoordinateSource {
	return func() domain.CityCoordinate {
		return domain.CityCoordinate{
			Lat: -90 + 180*rng.Float64(),
			Lng: -180 + 360*rng.Float64(),
		}
	}
}

// Draw is the outcome of resolving one coordinate.
type Draw struct {
	Coord domain.CityCoordinate
	City  string
	// Kept is false for duplicates and failed resolutions.
	Kept bool
	Err  error
}

type Sampler struct {
	resolver domain.CityResolver
	source   CoordinateSource
	observe  func(Draw)
}

func NewSampler(r domain.CityResolver, src CoordinateSource) *Sampler {
	return &Sampler{resolver: r, source: src, observe: LogDraw}
}

// WithObserver replaces the per-draw logger. nil disables it.
func (s *Sampler) WithObserver(fn func(Draw)) *Sampler {
	s.observe = fn
	return s
}

// Sample draws n coordinates and returns each distinct city once, in
// first-resolution order. Duplicates are discarded, not redrawn.
func (s *Sampler) Sample(ctx context.Context, n int) ([]domain.City, []Draw, error) {
	if n <= 0 {
		n = DefaultSampleSize
	}
	seen := make(map[string]struct{}, n)
	cities := make([]domain.City, 0, n/2)
	draws := make([]Draw, 0, n)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return cities, draws, err
		}
		coord := s.source()
		d := Draw{Coord: coord}

		c, err := s.resolver.NearestCity(ctx, coord)
		switch {
		case err != nil:
			d.Err = err
		case c.Name == "":
			d.Err = domain.ErrNoResultFound
		default:
			d.City = c.Name
			if _, dup := seen[c.Name]; !dup {
				seen[c.Name] = struct{}{}
				c.Coord = coord
				cities = append(cities, c)
				d.Kept = true
			}
		}
		draws = append(draws, d)
		if s.observe != nil {
			s.observe(d)
		}
	}
	return cities, draws, nil
}

// LogDraw is the default Sampler observer; only failures are logged.
func LogDraw(d Draw) {
	if d.Err != nil {
		log.Debug().Float64("lat", d.Coord.Lat).Float64("lng", d.Coord.Lng).Err(d.Err).Msg("coordinate not resolved")
	}
}

// CityNames projects the sample onto the collector's input.
func CityNames(cs []domain.City) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}
