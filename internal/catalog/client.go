// Package catalog is the client for the remote question and scoring service.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/pkg/logger"
)

// DefaultBaseURL is the scoring service address used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

const maxErrorBody = 64 << 10

// Service is the remote surface the rest of the application depends on.
type Service interface {
	Questions(ctx context.Context, role battery.Role) ([]battery.Question, error)
	Submit(ctx context.Context, sub Submission) (*Result, error)
	History(ctx context.Context, q HistoryQuery) (*History, error)
	Result(ctx context.Context, id string) (*Result, error)
}

// Client talks JSON over HTTP to the scoring service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Questions fetches the questions for a role. A failed or empty fetch is a
// *DataUnavailableError; no substitute data is ever returned.
func (c *Client) Questions(ctx context.Context, role battery.Role) ([]battery.Question, error) {
	var list QuestionList
	path := "/api/v1/questions/for-user/" + url.PathEscape(string(role))
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, &DataUnavailableError{Role: role, Err: err}
	}
	if len(list.Questions) == 0 {
		return nil, &DataUnavailableError{Role: role}
	}

	qs := make([]battery.Question, 0, len(list.Questions))
	for _, d := range list.Questions {
		qs = append(qs, d.Question())
	}
	battery.SortByNumber(qs)
	c.log.Debug(ctx, "questions fetched", logger.String("role", string(role)), logger.Int("count", len(qs)))
	return qs, nil
}

// Submit sends a prepared submission and returns the scored result.
func (c *Client) Submit(ctx context.Context, sub Submission) (*Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/tests/submit", sub, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// History fetches a page of the respondent's past results.
func (c *Client) History(ctx context.Context, q HistoryQuery) (*History, error) {
	v := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Period != "" && q.Period != "all" {
		v.Set("filter_period", q.Period)
	}

	var h History
	if err := c.do(ctx, http.MethodGet, "/api/v1/tests/history?"+v.Encode(), nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Result fetches one result by id.
func (c *Client) Result(ctx context.Context, id string) (*Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodGet, "/api/v1/tests/results/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do performs one request. Transport failures and error statuses come back
// as *RemoteError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", logger.String("method", method), logger.String("path", path), logger.Error(err))
		return &RemoteError{Network: true, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Int64("latency_ms", time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseErrorBody(resp.StatusCode, http.StatusText(resp.StatusCode), data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}
