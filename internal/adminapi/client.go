// Package adminapi is the typed HTTP client for the commerce backend's
// admin API. It owns the success/page envelope unwrapping, bearer token
// injection and the 401 session-invalidation hook; all business rules stay
// on the backend.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopcrew/admin-console/pkg/logging"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type Config struct {
	BaseURL string

	// TokenSource yields the current bearer token, or "" for an anonymous
	// request. Read at request time so the session can rotate underneath.
	TokenSource func() string

	// OnUnauthorized fires once per 401 response, before the error is
	// returned. The routing layer decides what to do about it.
	OnUnauthorized func()
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    func() string
	onUnauthorized func()
}

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		tokenSource:    cfg.TokenSource,
		onUnauthorized: cfg.OnUnauthorized,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// query accumulates list-filter parameters. The "all" sentinel used by the
// filter panels is never transmitted.
type query url.Values

func newQuery() query { return query{} }

func (q query) Filter(key, value string) query {
	if value == "" || strings.EqualFold(value, "all") {
		return q
	}
	url.Values(q).Set(key, value)
	return q
}

func (q query) Int(key string, value int) query {
	url.Values(q).Set(key, strconv.Itoa(value))
	return q
}

func (q query) Page(page, size int) query {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return q.Int("page", page).Int("size", size)
}

func (c *Client) get(ctx context.Context, path string, q query, out any) error {
	return c.do(ctx, http.MethodGet, path, q, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, q query, body, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + url.Values(q).Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	l := logging.FromContext(ctx).With("method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Error("backend_unreachable", "error", err)
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	// Status first: error responses may carry anything (empty bodies, proxy
	// HTML), so the envelope is only a best-effort source for the message.
	if resp.StatusCode >= 400 {
		msg := http.StatusText(resp.StatusCode)
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
			msg = env.Message
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			l.Warn("backend_unauthorized", "status", resp.StatusCode)
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		case http.StatusForbidden:
			l.Warn("backend_forbidden", "status", resp.StatusCode)
			return fmt.Errorf("%w: %s", ErrForbidden, msg)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return fmt.Errorf("backend: %s", msg)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("backend: %s", msg)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// notFoundToNil implements the get-by-id policy: a missing entity is a nil
// result, not an error.
func notFoundToNil(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
