// Package gazetteer resolves coordinates to the nearest city from a local
// reference list, so sampling needs no network.
package gazetteer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"city_weather/internal/domain"
)

// Place is one gazetteer row. Files need a header with at least these columns.
type Place struct {
	Country   string  `csv:"country"`
	City      string  `csv:"city_name"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
}

var ErrEmpty = errors.New("gazetteer: no places loaded")

type Gazetteer struct {
	places []Place
	points []orb.Point
}

// Open loads a gazetteer CSV from path.
func Open(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Gazetteer, error) {
	var rows []*Place
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("gazetteer: parse: %w", err)
	}
	places := make([]Place, 0, len(rows))
	for _, p := range rows {
		if p == nil || strings.TrimSpace(p.City) == "" {
			continue
		}
		places = append(places, *p)
	}
	return New(places)
}

func New(places []Place) (*Gazetteer, error) {
	if len(places) == 0 {
		return nil, ErrEmpty
	}
	g := &Gazetteer{places: places, points: make([]orb.Point, len(places))}
	for i, p := range places {
		g.points[i] = orb.Point{p.Longitude, p.Latitude}
	}
	return g, nil
}

func (g *Gazetteer) Len() int { return len(g.places) }

// NearestCity never fails once the gazetteer is loaded.
func (g *Gazetteer) NearestCity(_ context.Context, at domain.CityCoordinate) (domain.City, error) {
	target := orb.Point{at.Lng, at.Lat}
	best, bestDist := 0, math.Inf(1)
	for i, p := range g.points {
		if d := geo.DistanceHaversine(target, p); d < bestDist {
			best, bestDist = i, d
		}
	}
	p := g.places[best]
	return domain.City{
		Name:    strings.ToLower(strings.TrimSpace(p.City)),
		Country: strings.ToUpper(strings.TrimSpace(p.Country)),
		Coord:   at,
	}, nil
}
