// Package wiki fetches item metadata, latest prices and timeseries from
// the prices.runescape.wiki API and converts the wire shapes into domain
// values. It owns transport concerns only; normalization semantics live
// in the domain packages.
package wiki

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/runelens/internal/domain/model"
	"github.com/okian/runelens/internal/domain/price"
	"github.com/okian/runelens/pkg/metrics"
)

// Defaults for the wiki API. The API asks for a descriptive User-Agent.
const (
	defaultBaseURL      = "https://prices.runescape.wiki/api/v1/osrs"
	defaultGraphBaseURL = "https://services.runescape.com/m=itemdb_oldschool/api"
	defaultUserAgent    = "runelens price collector"
	defaultTimeout      = 10 * time.Second
)

// Timesteps accepted by the timeseries endpoint.
var validTimesteps = map[string]bool{
	"5m": true, "1h": true, "6h": true, "24h": true,
}

// ValidTimestep reports whether step is one of 5m, 1h, 6h, 24h.
func ValidTimestep(step string) bool {
	return validTimesteps[step]
}

// Client is a resty-backed wiki API client.
type Client struct {
	baseURL      string
	graphBaseURL string
	userAgent    string
	timeout      time.Duration

	http *resty.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the price API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithGraphBaseURL overrides the price-history graph base URL.
func WithGraphBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.graphBaseURL = url
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent != "" {
			c.userAgent = agent
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient creates a wiki client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		graphBaseURL: defaultGraphBaseURL,
		userAgent:    defaultUserAgent,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(c.baseURL).
		SetHeader("User-Agent", c.userAgent).
		SetTimeout(c.timeout)

	return c
}

// Mapping fetches the full item listing. The wire tags line up with
// model.ItemMeta, so the payload decodes straight into domain values.
func (c *Client) Mapping(ctx context.Context) ([]model.ItemMeta, error) {
	var out []model.ItemMeta
	if err := c.get(ctx, "mapping", "/mapping", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// latestResponse is the wire envelope of /latest: observations keyed by
// item id rendered as a string.
type latestResponse struct {
	Data map[string]wireObservation `json:"data"`
}

type wireObservation struct {
	High     *int64 `json:"high"`
	Low      *int64 `json:"low"`
	HighTime *int64 `json:"highTime"`
	LowTime  *int64 `json:"lowTime"`
}

// Latest fetches current price observations for all items. Keys that do
// not parse as item ids are dropped.
func (c *Client) Latest(ctx context.Context) (map[int]model.PriceObservation, error) {
	var envelope latestResponse
	if err := c.get(ctx, "latest", "/latest", &envelope); err != nil {
		return nil, err
	}

	out := make(map[int]model.PriceObservation, len(envelope.Data))
	for key, obs := range envelope.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out[id] = model.PriceObservation{
			ItemID:   id,
			High:     obs.High,
			Low:      obs.Low,
			HighTime: obs.HighTime,
			LowTime:  obs.LowTime,
		}
	}
	return out, nil
}

// timeseriesResponse is the wire envelope of /timeseries.
type timeseriesResponse struct {
	Data []model.TimeseriesPoint `json:"data"`
}

// Timeseries fetches bucketed price history for one item. step must be
// one of 5m, 1h, 6h, 24h.
func (c *Client) Timeseries(ctx context.Context, itemID int, step string) ([]model.TimeseriesPoint, error) {
	if !ValidTimestep(step) {
		return nil, fmt.Errorf("%w: %q", ErrBadTimestep, step)
	}

	var envelope timeseriesResponse
	path := fmt.Sprintf("/timeseries?timestep=%s&id=%d", step, itemID)
	if err := c.get(ctx, "timeseries", path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Graph fetches the daily/average price-history payload for one item
// from the item database API. The returned series is raw wire data;
// price.ParseHistory orders it.
func (c *Client) Graph(ctx context.Context, itemID int) (price.HistorySeries, error) {
	var series price.HistorySeries
	url := fmt.Sprintf("%s/graph/%d.json", c.graphBaseURL, itemID)
	if err := c.get(ctx, "graph", url, &series); err != nil {
		return price.HistorySeries{}, err
	}
	return series, nil
}

// get performs an instrumented GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, source, url string, out interface{}) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(out).
		Get(url)
	metrics.RecordFetchDuration(source, float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordFetchError(source)
		return fmt.Errorf("fetching %s: %w", source, err)
	}
	if resp.IsError() {
		metrics.RecordFetchError(source)
		return fmt.Errorf("%w: %s returned %d", ErrBadStatus, source, resp.StatusCode())
	}

	metrics.RecordFetch(source)
	return nil
}
