package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"city_weather/internal/adapters/httpjson"
	"city_weather/internal/domain"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Reverse/
// Sample request: https://nominatim.openstreetmap.org/reverse?lat=39.11&lon=-107.65&format=json&zoom=10
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client resolves coordinates with OSM reverse geocoding. The public
// instance allows one request per second.
type Client struct {
	base string
	hc   *httpjson.Client
}

func New(base string, opts httpjson.Options) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if opts.RPS <= 0 || opts.RPS > 1 {
		opts.RPS = 1
	}
	return &Client{base: strings.TrimRight(base, "/"), hc: httpjson.New("nominatim", opts)}
}

func (c *Client) NearestCity(ctx context.Context, at domain.CityCoordinate) (domain.City, error) {
	u, err := url.Parse(c.base + "/reverse")
	if err != nil {
		return domain.City{}, fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(at.Lng, 'f', 6, 64))
	q.Set("format", "json")
	q.Set("zoom", "10")
	u.RawQuery = q.Encode()

	var resp reverseResponse
	if err := c.hc.GetJSON(ctx, u, nil, &resp); err != nil {
		return domain.City{}, err
	}
	// open ocean comes back as 200 {"error":"Unable to geocode"}
	if resp.Error != "" {
		return domain.City{}, fmt.Errorf("%w: %s", domain.ErrNoResultFound, resp.Error)
	}
	name := resp.placeName()
	if name == "" {
		return domain.City{}, fmt.Errorf("%w: place name", domain.ErrIncompleteData)
	}
	return domain.City{
		Name:    strings.ToLower(name),
		Country: strings.ToUpper(resp.Address.CountryCode),
		Coord:   at,
	}, nil
}
