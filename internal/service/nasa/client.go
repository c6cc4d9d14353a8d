package nasa

//go:generate mockgen -destination=mock/client.go -package=mock apod/server/internal/service/nasa Client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"apod/server/internal/config"
	"apod/server/internal/logger"
	"apod/server/internal/metrics"
	"apod/server/internal/model"
	"apod/server/internal/network"
)

const (
	apodPath       = "/planetary/apod"
	requestTimeout = 30 * time.Second
)

var (
	// ErrNotFound means the provider has no picture for the requested date.
	ErrNotFound = errors.New("provider has no entry")
	// ErrMalformed means the provider answered with a payload we cannot use.
	ErrMalformed = errors.New("malformed provider payload")
)

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Record is the provider payload for one day.
type Record struct {
	Title          string `json:"title"`
	Explanation    string `json:"explanation"`
	URL            string `json:"url"`
	HDURL          string `json:"hdurl,omitempty"`
	MediaType      string `json:"media_type"`
	Date           string `json:"date"`
	Copyright      string `json:"copyright,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`
}

// ParsedDate parses the record's date text. Failure wraps ErrMalformed.
func (r Record) ParsedDate() (time.Time, error) {
	d, err := model.ParseDate(strings.TrimSpace(r.Date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d, nil
}

// Client talks to the picture-of-the-day provider.
type Client interface {
	// FetchByDate returns the record published for date.
	FetchByDate(ctx context.Context, date time.Time) (Record, error)
	// FetchLatest returns whatever the provider currently serves as today's record.
	FetchLatest(ctx context.Context) (Record, error)
}

type client struct {
	http    *resty.Client
	limiter *RateLimiter
	metrics *metrics.Metrics
}

// NewClient builds a provider client on top of the factory's http.Client.
func NewClient(baseURL, apiKey string, qps int, factory *network.ClientFactory, m *metrics.Metrics) Client {
	httpClient := factory.NewHTTPClient(requestTimeout)
	r := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", config.UserAgent).
		SetQueryParam("api_key", apiKey)

	limiter := NewRateLimiter(qps)
	logger.Info("provider client configured", "module", "nasa", "action", "init", "resource", "apod", "result", "ok", "base_url", baseURL, "qps", limiter.Limit(), "proxied", factory.ProxyURL() != "")

	return &client{
		http:    r,
		limiter: limiter,
		metrics: m,
	}
}

func (c *client) FetchByDate(ctx context.Context, date time.Time) (Record, error) {
	return c.fetch(ctx, "date", map[string]string{"date": model.FormatDate(date)})
}

func (c *client) FetchLatest(ctx context.Context) (Record, error) {
	return c.fetch(ctx, "latest", nil)
}

func (c *client) fetch(ctx context.Context, endpoint string, params map[string]string) (Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Record{}, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(apodPath)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveProviderRequest(endpoint, "error", elapsed)
		logger.Warn("provider request failed", "module", "nasa", "action", "fetch", "resource", "apod", "result", "failed", "endpoint", endpoint, "error", err)
		return Record{}, fmt.Errorf("provider request: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		c.metrics.ObserveProviderRequest(endpoint, "not_found", elapsed)
		return Record{}, ErrNotFound
	case resp.StatusCode() < 200 || resp.StatusCode() >= 300:
		c.metrics.ObserveProviderRequest(endpoint, "status", elapsed)
		return Record{}, &StatusError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), 256)}
	}

	var rec Record
	if err := json.Unmarshal(resp.Body(), &rec); err != nil {
		c.metrics.ObserveProviderRequest(endpoint, "malformed", elapsed)
		return Record{}, fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}
	if rec.Date == "" || rec.URL == "" {
		c.metrics.ObserveProviderRequest(endpoint, "malformed", elapsed)
		return Record{}, fmt.Errorf("%w: missing date or url", ErrMalformed)
	}

	c.metrics.ObserveProviderRequest(endpoint, "ok", elapsed)
	logger.Debug("provider record fetched", "module", "nasa", "action", "fetch", "resource", "apod", "result", "ok", "endpoint", endpoint, "date", rec.Date, "media_type", rec.MediaType, "duration_ms", elapsed.Milliseconds())
	return rec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
