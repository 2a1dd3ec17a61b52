// Package rest is the record store driver for a json-server style REST
// backend. Every call is an independent round trip guarded by a circuit
// breaker; there are no transactions.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Collection paths on the store.
const (
	CollectionAccounts     = "accounts"
	CollectionDepartments  = "departments"
	CollectionPositions    = "positions"
	CollectionEmployees    = "employees"
	CollectionAttendance   = "attendance"
	CollectionRequestForms = "requestForms"
	CollectionActivityLogs = "activityLogs"
)

const breakerName = "record-store"

// StatusError is a response the store answered with a non-success status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
	positions  string
	loc        *time.Location
}

type Option func(*Client)

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLocation sets the zone stored wall-clock times are read and written in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithPositionsCollection points the position repository at an alternative path.
func WithPositionsCollection(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.positions = path
		}
	}
}

// NewClient builds a store client. The breaker opens once 60% of at least 10
// calls in a minute have failed and probes again after 30 seconds.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		positions:  CollectionPositions,
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}

	metrics.SetCircuitBreakerState(breakerName, 0)

	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("record store circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.SetCircuitBreakerState(name, stateToFloat(to))
		},
		// Answers the store gave on purpose do not count against it.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Code < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict)
		},
	})

	return c
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// do sends one request and decodes the response body into out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	target := c.baseURL + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	data, err := c.cb.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, target, path, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s %s: %w: %v", method, path, repository.ErrUnavailable, err)
		}
		return err
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, target, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, repository.ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("%s %s: %w", method, path, repository.ErrConflict)
	case resp.StatusCode >= 300:
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	return data, nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

func list[T any](ctx context.Context, c *Client, collection string, query url.Values) ([]T, error) {
	out := make([]T, 0)
	if err := c.do(ctx, http.MethodGet, collection, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// first returns the single record matching query, or repository.ErrNotFound.
func first[T any](ctx context.Context, c *Client, collection string, query url.Values) (T, error) {
	var zero T
	items, err := list[T](ctx, c, collection, query)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("GET %s?%s: %w", collection, query.Encode(), repository.ErrNotFound)
	}
	return items[0], nil
}

func get[T any](ctx context.Context, c *Client, collection, id string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, itemPath(collection, id), nil, nil, &out)
	return out, err
}

func create[T any](ctx context.Context, c *Client, collection string, record T) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPost, collection, nil, record, &out)
	return out, err
}

func replace[T any](ctx context.Context, c *Client, collection, id string, record T) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPut, itemPath(collection, id), nil, record, &out)
	return out, err
}

func patch[T any](ctx context.Context, c *Client, collection, id string, fields map[string]interface{}) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPatch, itemPath(collection, id), nil, fields, &out)
	return out, err
}

func remove(ctx context.Context, c *Client, collection, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(collection, id), nil, nil, nil)
}

// storedVersion treats records written before versioning as version 1.
func storedVersion(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
