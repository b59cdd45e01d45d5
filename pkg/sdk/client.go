package llmpulse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 10 * time.Second
)

// Client is the llmpulse SDK entry point. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	obs     *observer
}

// New creates a Client. Without options it targets a local unsecured
// server.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: cfg.baseURL,
		apiKey:  cfg.apiKey,
		http:    hc,
		obs:     obs,
	}, nil
}

// LogEvent submits one call event and returns it as persisted, with
// the server-assigned id, created_at, and computed cost.
func (c *Client) LogEvent(ctx context.Context, evt Event) (out Event, err error) {
	start := time.Now()
	defer func() { c.obs.observe("log_event", start, err) }()

	err = c.do(ctx, http.MethodPost, "/api/events", nil, evt, &out)
	return out, err
}

// Overview fetches aggregate metrics for the trailing window. Pass
// hours <= 0 for the server default.
func (c *Client) Overview(ctx context.Context, hours int) (out Overview, err error) {
	start := time.Now()
	defer func() { c.obs.observe("overview", start, err) }()

	q := url.Values{}
	if hours > 0 {
		q.Set("hours", strconv.Itoa(hours))
	}
	err = c.do(ctx, http.MethodGet, "/api/metrics/overview", q, nil, &out)
	return out, err
}

// TimeSeries fetches a bucketed metric over a time range.
func (c *Client) TimeSeries(ctx context.Context, query TimeSeriesQuery) (points []TimeSeriesPoint, err error) {
	start := time.Now()
	defer func() { c.obs.observe("timeseries", start, err) }()

	q := url.Values{}
	q.Set("start", query.Start.UTC().Format(time.RFC3339))
	q.Set("end", query.End.UTC().Format(time.RFC3339))
	if query.Interval != "" {
		q.Set("interval", query.Interval)
	}
	if query.Metric != "" {
		q.Set("metric", query.Metric)
	}
	if query.Model != "" {
		q.Set("model", query.Model)
	}

	var resp struct {
		Data []TimeSeriesPoint `json:"data"`
	}
	if err = c.do(ctx, http.MethodGet, "/api/metrics/timeseries", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Conversations fetches one page of the event listing, newest first.
func (c *Client) Conversations(ctx context.Context, params ListParams) (out Conversations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("conversations", start, err) }()

	page := params.Page
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}
	if params.Model != "" {
		q.Set("model", params.Model)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	err = c.do(ctx, http.MethodGet, "/api/conversations", q, nil, &out)
	return out, err
}

// Health checks service availability. Returns an error when the
// service reports itself degraded.
func (c *Client) Health(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	var resp struct {
		Status string `json:"status"`
	}
	return c.do(ctx, http.MethodGet, "/health", nil, nil, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("llmpulse: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("llmpulse: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("llmpulse: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("llmpulse: decode response: %w", err)
		}
	}
	return nil
}
