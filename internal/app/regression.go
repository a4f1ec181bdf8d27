package app

import (
	"errors"
	"math"

	"city_weather/internal/domain"
)

var ErrDegenerateFit = errors.New("regression needs two or more points with distinct x")

// Fit is an ordinary least-squares line y = Slope*x + Intercept.
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	N         int     `json:"n"`
}

func (f Fit) RSquared() float64 { return f.R * f.R }

func (f Fit) Predict(x float64) float64 { return f.Slope*x + f.Intercept }

func LinearFit(xs, ys []float64) (Fit, error) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return Fit{}, ErrDegenerateFit
	}
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxx, syy, sxy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 {
		return Fit{}, ErrDegenerateFit
	}
	f := Fit{Slope: sxy / sxx, N: n}
	f.Intercept = my - f.Slope*mx
	if syy > 0 {
		f.R = sxy / math.Sqrt(sxx*syy)
	}
	return f, nil
}

type Hemisphere string

const (
	HemisphereAll      Hemisphere = "all"
	HemisphereNorthern Hemisphere = "northern"
	HemisphereSouthern Hemisphere = "southern"
)

// LatitudeFit regresses one weather variable against latitude.
type LatitudeFit struct {
	Variable   string     `json:"variable"`
	Hemisphere Hemisphere `json:"hemisphere"`
	Fit
}

var latitudeVariables = []struct {
	name string
	get  func(domain.CityRecord) float64
}{
	{"Max Temp", func(r domain.CityRecord) float64 { return r.MaxTemp }},
	{"Humidity", func(r domain.CityRecord) float64 { return float64(r.Humidity) }},
	{"Cloudiness", func(r domain.CityRecord) float64 { return float64(r.Cloudiness) }},
	{"Wind Speed", func(r domain.CityRecord) float64 { return r.WindSpeed }},
}

// LatitudeFits fits every variable for all cities and for each hemisphere
// (northern is Lat >= 0). Degenerate subsets are left out.
func LatitudeFits(recs []domain.CityRecord) []LatitudeFit {
	subsets := []struct {
		h    Hemisphere
		keep func(domain.CityRecord) bool
	}{
		{HemisphereAll, func(domain.CityRecord) bool { return true }},
		{HemisphereNorthern, func(r domain.CityRecord) bool { return r.Lat >= 0 }},
		{HemisphereSouthern, func(r domain.CityRecord) bool { return r.Lat < 0 }},
	}
	var out []LatitudeFit
	for _, s := range subsets {
		var sel []domain.CityRecord
		for _, r := range recs {
			if s.keep(r) {
				sel = append(sel, r)
			}
		}
		for _, v := range latitudeVariables {
			xs := make([]float64, len(sel))
			ys := make([]float64, len(sel))
			for i, r := range sel {
				xs[i], ys[i] = r.Lat, v.get(r)
			}
			f, err := LinearFit(xs, ys)
			if err != nil {
				continue
			}
			out = append(out, LatitudeFit{Variable: v.name, Hemisphere: s.h, Fit: f})
		}
	}
	return out
}
