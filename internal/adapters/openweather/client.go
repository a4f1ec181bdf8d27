package openweather

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"city_weather/internal/adapters/httpjson"
)

// API Docs: https://openweathermap.org/current
// Sample request: https://api.openweathermap.org/data/2.5/weather?q=paris&units=metric&appid=KEY
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

type Client struct {
	base  string
	key   string
	units string
	hc    *httpjson.Client
}

func New(base, key, units string, opts httpjson.Options) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if units == "" {
		units = "metric"
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		key:   key,
		units: units,
		hc:    httpjson.New("openweather", opts),
	}, nil
}

// CurrentWeather returns the raw current-weather payload for city.
func (c *Client) CurrentWeather(ctx context.Context, city string) (map[string]any, error) {
	u, err := url.Parse(c.base + "/weather")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("units", c.units)
	q.Set("appid", c.key)
	u.RawQuery = q.Encode()

	var out map[string]any
	if err := c.hc.GetJSON(ctx, u, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
