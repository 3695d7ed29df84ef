// Package geocode resolves free-text addresses to coordinates via
// Nominatim, degrading to a configured fallback coordinate when the
// service is unavailable or the address does not match.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client resolves addresses to coordinates.
type Client interface {
	// Resolve geocodes a single free-text address. It never returns an
	// error: every failure path degrades to the fallback coordinate with
	// lowered confidence, so lead intake cannot block on third-party
	// availability. Callers distinguish real geocodes from default
	// substitution via Result.Fallback.
	Resolve(ctx context.Context, address string) Result
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude   float64
	Longitude  float64
	Confidence float64 // 1.0 for a provider match, 0.5 for the fallback
	Fallback   bool    // true when the fallback coordinate was substituted
	Display    string  // provider display name, or the input address on fallback
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithBaseURL overrides the Nominatim endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header sent to Nominatim, which
// requires one identifying the application.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithTimeout bounds each geocoding request.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		g.httpClient.Timeout = d
	}
}

// WithRateLimit sets the requests-per-second limit for Nominatim calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithFallback sets the coordinate substituted on failure or no-match.
func WithFallback(lat, lon float64) Option {
	return func(g *geocoder) {
		g.fallbackLat = lat
		g.fallbackLon = lon
	}
}

type geocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter

	fallbackLat float64
	fallbackLon float64
}

// NewClient creates a geocoding Client with the given options. The
// default fallback is downtown Austin, TX.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		baseURL:     "https://nominatim.openstreetmap.org",
		userAgent:   "lead-broker/1.0",
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(1, 1), // Nominatim usage policy: 1 req/s
		fallbackLat: 30.2672,
		fallbackLon: -97.7431,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// fallback builds the degraded result for an address.
func (g *geocoder) fallback(address string) Result {
	return Result{
		Latitude:   g.fallbackLat,
		Longitude:  g.fallbackLon,
		Confidence: 0.5,
		Fallback:   true,
		Display:    address,
	}
}
