package geoapify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"city_weather/internal/adapters/httpjson"
	"city_weather/internal/domain"
)

// API Docs: https://apidocs.geoapify.com/docs/places/
// Sample request: https://api.geoapify.com/v2/places?categories=accommodation.hotel&filter=circle:2.35,48.85,10000&bias=proximity:2.35,48.85&limit=20&apiKey=KEY
const DefaultBaseURL = "https://api.geoapify.com/v2"

type Client struct {
	base string
	key  string
	hc   *httpjson.Client
}

func New(base, key string, opts httpjson.Options) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{base: strings.TrimRight(base, "/"), key: key, hc: httpjson.New("geoapify", opts)}, nil
}

type featureCollection struct {
	Features *[]struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// SearchPlaces returns the properties object of every feature, in provider order.
func (c *Client) SearchPlaces(ctx context.Context, q domain.PlaceQuery) ([]map[string]any, error) {
	u, err := url.Parse(c.base + "/places")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	lng := strconv.FormatFloat(q.Center.Lng, 'f', -1, 64)
	lat := strconv.FormatFloat(q.Center.Lat, 'f', -1, 64)

	v := u.Query()
	v.Set("categories", q.Category)
	v.Set("filter", fmt.Sprintf("circle:%s,%s,%d", lng, lat, q.RadiusMeters))
	if q.Bias {
		v.Set("bias", fmt.Sprintf("proximity:%s,%s", lng, lat))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	v.Set("apiKey", c.key)
	u.RawQuery = v.Encode()

	var fc featureCollection
	if err := c.hc.GetJSON(ctx, u, nil, &fc); err != nil {
		return nil, err
	}
	if fc.Features == nil {
		return nil, fmt.Errorf("%w: features", domain.ErrIncompleteData)
	}
	out := make([]map[string]any, 0, len(*fc.Features))
	for _, f := range *fc.Features {
		p := f.Properties
		if p == nil {
			p = map[string]any{}
		}
		out = append(out, p)
	}
	return out, nil
}
