package app

import "city_weather/internal/domain"

// Preferences are inclusive bounds on Max Temp and Wind Speed plus an exact
// Cloudiness match.
type Preferences struct {
	MaxTempLow   float64 `mapstructure:"max_temp_low"`
	MaxTempHigh  float64 `mapstructure:"max_temp_high"`
	WindSpeedMax float64 `mapstructure:"wind_speed_max"`
	Cloudiness   int     `mapstructure:"cloudiness_exact"`
}

func DefaultPreferences() Preferences {
	return Preferences{MaxTempLow: 21, MaxTempHigh: 27, WindSpeedMax: 4.5, Cloudiness: 0}
}

func (p Preferences) Match(r domain.DatasetRow) bool {
	return r.Complete() &&
		r.MaxTemp >= p.MaxTempLow && r.MaxTemp <= p.MaxTempHigh &&
		r.WindSpeed <= p.WindSpeedMax &&
		r.Cloudiness == p.Cloudiness
}

// FilterPreferred keeps rows matching every preference, in input order.
// Incomplete rows never match.
func FilterPreferred(rows []domain.DatasetRow, p Preferences) []domain.DatasetRow {
	out := make([]domain.DatasetRow, 0)
	for _, r := range rows {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
