// Package engine is the HTTP client for the remote backtest-execution
// service. The engine owns simulation, validation, and persistence; this
// client only ships requests and surfaces responses.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quantlens/quantlens/internal/core"
	"github.com/quantlens/quantlens/internal/result"
	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// RunRequest carries the parameters for a new backtest run.
type RunRequest struct {
	Ticker         string  `json:"ticker"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	InitialCapital float64 `json:"initial_capital"`
	ShortWindow    int     `json:"short_window"`
	LongWindow     int     `json:"long_window"`
}

type runResponse struct {
	Message  string             `json:"message"`
	Backtest result.RawBacktest `json:"backtest"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Observer receives per-request timings, keyed by operation name.
type Observer interface {
	RecordEngineDuration(operation string, seconds float64)
}

// Client talks to the engine over HTTP/JSON.
type Client struct {
	baseURL  string
	client   *http.Client
	logger   *zap.Logger
	observer Observer
}

// New creates an engine client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetObserver registers a timing observer for engine requests.
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// Run submits a backtest run and returns the completed summary record.
// The ticker is uppercased on the way out; everything else is validated by
// the engine, whose error text is surfaced to the user verbatim.
func (c *Client) Run(ctx context.Context, req RunRequest) (result.RawBacktest, error) {
	req.Ticker = strings.ToUpper(req.Ticker)

	body, err := json.Marshal(req)
	if err != nil {
		return result.RawBacktest{}, core.WrapError(core.ErrEngineRejected, err)
	}

	var resp runResponse
	if err := c.do(ctx, "run", http.MethodPost, "/api/backtests/run", bytes.NewReader(body), &resp); err != nil {
		return result.RawBacktest{}, err
	}

	c.logger.Info("backtest run accepted",
		zap.String("ticker", req.Ticker),
		zap.String("message", resp.Message),
	)
	return resp.Backtest, nil
}

// Get fetches the full detail of a backtest by identifier.
func (c *Client) Get(ctx context.Context, id int64) (result.RawDetail, error) {
	var detail result.RawDetail
	path := fmt.Sprintf("/api/backtests/%d", id)
	if err := c.do(ctx, "get", http.MethodGet, path, nil, &detail); err != nil {
		return result.RawDetail{}, err
	}
	return detail, nil
}

// List fetches all backtest summaries, newest first as delivered.
func (c *Client) List(ctx context.Context) ([]result.RawBacktest, error) {
	var summaries []result.RawBacktest
	if err := c.do(ctx, "list", http.MethodGet, "/api/backtests", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Delete removes a backtest and all of its related data.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/backtests/%d", id)
	return c.do(ctx, "delete", http.MethodDelete, path, nil, nil)
}

// Health checks the engine's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/api/health", nil, nil)
}

// do issues one request and decodes the response into out when non-nil.
// Non-2xx responses become structured errors carrying the engine's own
// error text when the payload has one, a generic message otherwise.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return core.WrapError(core.ErrEngineUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.client.Do(req)
	if c.observer != nil {
		c.observer.RecordEngineDuration(op, time.Since(start).Seconds())
	}
	if err != nil {
		return core.WrapError(core.ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return core.WrapError(core.ErrRecordInvalid, fmt.Errorf("decoding response: %w", err))
		}
	}
	return nil
}

func (c *Client) asError(resp *http.Response) error {
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		payload.Error = fmt.Sprintf("engine returned status %d", resp.StatusCode)
	}

	c.logger.Warn("engine request failed",
		zap.Int("status", resp.StatusCode),
		zap.String("error", payload.Error),
	)

	if resp.StatusCode == http.StatusNotFound {
		return core.WrapError(core.ErrBacktestNotFound, fmt.Errorf("%s", payload.Error))
	}
	return core.WrapError(core.ErrEngineRejected, fmt.Errorf("%s", payload.Error))
}
