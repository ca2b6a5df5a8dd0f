// Package upstream fetches report rows from the tenant's ERP backend. Each
// company in the catalog exposes the same REST surface under its own base
// URL; the client injects the session's bearer token and unwraps the
// backend's response envelope.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/strata-erp/strata-reports/internal/observability"
	"github.com/strata-erp/strata-reports/internal/report"
	"github.com/strata-erp/strata-reports/internal/shared"
)

// ErrUnavailable reports backend or transport failure for a fetch. Handlers
// map it to a 502 without replacing any previously rendered rows.
var ErrUnavailable = errors.New("upstream: backend unavailable")

// paramDayFormat is the wire format of date-range query parameters.
const paramDayFormat = "2006-01-02"

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Query carries the parameters of one report fetch.
type Query struct {
	// Path is the backend endpoint, e.g. "/reports/salesonline".
	Path string
	// From and To bound the fetch by calendar day; zero values omit the
	// parameter.
	From time.Time
	To   time.Time
	// Extra holds endpoint-specific parameters.
	Extra url.Values
}

// Client fetches rows from one company backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a client for the company at baseURL, sending token
// as a bearer credential on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchRows retrieves the rows behind q. Backend failures return
// ErrUnavailable; an expired credential returns shared.ErrSessionExpired so
// callers destroy the portal session instead of retrying.
func (c *Client) FetchRows(ctx context.Context, q Query) ([]report.Row, error) {
	raw, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	var rows []report.Row
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			observability.ObserveUpstream(q.Path, "decode_error")
			return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, q.Path, err)
		}
	}
	return rows, nil
}

// FetchObject retrieves a single JSON object endpoint, e.g. an opening
// balance lookup.
func (c *Client) FetchObject(ctx context.Context, q Query, dst any) error {
	raw, err := c.fetch(ctx, q)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		observability.ObserveUpstream(q.Path, "decode_error")
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, q.Path, err)
	}
	return nil
}

// FetchAll runs the queries concurrently and returns the row sets in query
// order. Any failure cancels the rest; a report never renders from a
// partially fetched set.
func (c *Client) FetchAll(ctx context.Context, queries ...Query) ([][]report.Row, error) {
	out := make([][]report.Row, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			rows, err := c.FetchRows(ctx, q)
			if err != nil {
				return err
			}
			out[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, q Query) (json.RawMessage, error) {
	params := url.Values{}
	for k, vs := range q.Extra {
		params[k] = vs
	}
	if !q.From.IsZero() {
		params.Set("Fromdate", q.From.Format(paramDayFormat))
	}
	if !q.To.IsZero() {
		params.Set("Todate", q.To.Format(paramDayFormat))
	}

	endpoint := c.baseURL + q.Path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveUpstream(q.Path, "transport_error")
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, q.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		observability.ObserveUpstream(q.Path, "unauthorized")
		return nil, shared.ErrSessionExpired
	}
	if resp.StatusCode >= 400 {
		observability.ObserveUpstream(q.Path, "http_error")
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, q.Path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.ObserveUpstream(q.Path, "transport_error")
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, q.Path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		observability.ObserveUpstream(q.Path, "decode_error")
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, q.Path, err)
	}
	if !env.Success {
		observability.ObserveUpstream(q.Path, "rejected")
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrUnavailable, q.Path, msg)
	}

	observability.ObserveUpstream(q.Path, "ok")
	return env.Data, nil
}
