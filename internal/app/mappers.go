package app

import (
	"fmt"
	"strconv"
	"strings"

	"city_weather/internal/domain"
)

/********** payload paths (single source of truth) **********/

var weatherPaths = struct {
	lat, lng, maxTemp, humidity, clouds, wind, country, date string
}{
	lat:      "coord.lat",
	lng:      "coord.lon",
	maxTemp:  "main.temp_max",
	humidity: "main.humidity",
	clouds:   "clouds.all",
	wind:     "wind.speed",
	country:  "sys.country",
	date:     "dt",
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmpty: first non-empty string among paths.
func firstNonEmpty(m map[string]any, paths ...string) *string {
	for _, p := range paths {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return &s
		}
	}
	return nil
}

// getFloatFlexible: number at path (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, path string) *float64 {
	switch v := lookupAny(m, path).(type) {
	case float64:
		f := v
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// fieldReader records every missing required path.
type fieldReader struct {
	m       map[string]any
	missing []string
}

func (r *fieldReader) float(path string) float64 {
	f := getFloatFlexible(r.m, path)
	if f == nil {
		r.missing = append(r.missing, path)
		return 0
	}
	return *f
}

func (r *fieldReader) str(path string) string {
	s, ok := lookupAny(r.m, path).(string)
	if !ok {
		r.missing = append(r.missing, path)
	}
	return s
}

func (r *fieldReader) err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrIncompleteData, strings.Join(r.missing, ", "))
}

/********** weather mapper **********/

// mapWeather extracts a CityRecord for city. Every field is required.
func mapWeather(city string, p map[string]any) (domain.CityRecord, error) {
	r := fieldReader{m: p}
	rec := domain.CityRecord{
		City:       city,
		Lat:        r.float(weatherPaths.lat),
		Lng:        r.float(weatherPaths.lng),
		MaxTemp:    r.float(weatherPaths.maxTemp),
		Humidity:   int(r.float(weatherPaths.humidity)),
		Cloudiness: int(r.float(weatherPaths.clouds)),
		WindSpeed:  r.float(weatherPaths.wind),
		Country:    r.str(weatherPaths.country),
		Date:       int64(r.float(weatherPaths.date)),
	}
	if err := r.err(); err != nil {
		return domain.CityRecord{}, err
	}
	return rec, nil
}

/********** place mapper **********/

// mapPlace requires the top-level "name"; localized or raw names are not
// substituted for it.
func mapPlace(p map[string]any) (domain.Place, error) {
	name := firstNonEmpty(p, "name")
	if name == nil {
		return domain.Place{}, fmt.Errorf("%w: name", domain.ErrIncompleteData)
	}
	pl := domain.Place{Name: *name}
	if s := firstNonEmpty(p, "formatted", "address_line2", "street"); s != nil {
		pl.Address = *s
	}
	if f := getFloatFlexible(p, "lat"); f != nil {
		pl.Lat = *f
	}
	if f := getFloatFlexible(p, "lon"); f != nil {
		pl.Lng = *f
	}
	return pl, nil
}
