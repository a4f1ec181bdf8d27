// internal/adapters/httpjson/client.go
package httpjson

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"city_weather/internal/adapters/observability"
	"city_weather/internal/domain"
)

// Every error this package returns (except a cancelled caller context)
// wraps domain.ErrLookupFailure.
var (
	ErrNotFound     = fmt.Errorf("%w: not found", domain.ErrLookupFailure)
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", domain.ErrLookupFailure)
	ErrForbidden    = fmt.Errorf("%w: forbidden", domain.ErrLookupFailure)
)

type Options struct {
	Timeout time.Duration
	// RPS is the client-side request rate; it doubles as the minimum
	// inter-request delay (1/RPS).
	RPS float64
	// MaxRetries is the number of extra attempts after a transient failure
	// (429, 5xx, network). Zero means exactly one attempt.
	MaxRetries int
	UserAgent  string
}

type Client struct {
	service    string
	hc         *http.Client
	rl         *rate.Limiter
	maxRetries int
	ua         string
}

// New builds a client labelled service in the outbound metrics.
func New(service string, o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = "city-weather/1.0"
	}
	return &Client{
		service:    service,
		hc:         &http.Client{Timeout: o.Timeout},
		rl:         rate.NewLimiter(rate.Limit(o.RPS), 1),
		maxRetries: o.MaxRetries,
		ua:         o.UserAgent,
	}
}

// GetJSON performs a GET with client-side rate limiting and optional retries,
// decoding a 2xx body into out. Retries honor Retry-After when provided.
func (c *Client) GetJSON(ctx context.Context, u *url.URL, header http.Header, out any) error {
	endpoint := u.Path
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		// retries count against the rate too
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrLookupFailure, err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrLookupFailure, err)
			if i < c.maxRetries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%w: decode: %v", domain.ErrLookupFailure, err)
			}
			return nil

		case http.StatusNotFound:
			drain(resp)
			return ErrNotFound

		case http.StatusUnauthorized:
			drain(resp)
			return ErrUnauthorized

		case http.StatusForbidden:
			drain(resp)
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			drain(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: remote %d", domain.ErrLookupFailure, resp.StatusCode)
			if i < c.maxRetries && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: bad status %d: %s", domain.ErrLookupFailure, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no attempt made")
	}
	return lastErr
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
