// Package http provides a fluent, retry-aware HTTP client for talking to the
// catalog API.
//
// Usage:
//
//	c := http.NewClient("http://localhost:8080/api/v1")
//
//	resp, err := c.Get("/products").
//	    Query(url.Values{"q": {"lamp"}}).
//	    WithContext(ctx).
//	    Send()
//
//	var page ProductPage
//	err = resp.JSON(&page)
//
//	// POST JSON body
//	resp, err := c.Post("/products").Body(input).Send()
//
// Every request carries the X-Request-ID of its context.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	gohttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
)

// DefaultTimeout bounds each attempt unless Timeout overrides it.
const DefaultTimeout = 10 * time.Second

var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// Client sends requests relative to a base URL.
type Client struct {
	base    string
	hc      *gohttp.Client
	timeout time.Duration
}

// NewClient returns a client for base, e.g. "http://localhost:8080/api/v1".
func NewClient(base string) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &gohttp.Client{Transport: defaultTransport},
		timeout: DefaultTimeout,
	}
}

// WithHTTPClient swaps the underlying client, e.g. an httptest server's.
func (c *Client) WithHTTPClient(hc *gohttp.Client) *Client {
	c.hc = hc
	return c
}

// WithTimeout changes the default per-attempt timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// BaseURL is the URL every path is resolved against.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) Get(path string) *Request    { return c.newRequest(gohttp.MethodGet, path) }
func (c *Client) Post(path string) *Request   { return c.newRequest(gohttp.MethodPost, path) }
func (c *Client) Put(path string) *Request    { return c.newRequest(gohttp.MethodPut, path) }
func (c *Client) Patch(path string) *Request  { return c.newRequest(gohttp.MethodPatch, path) }
func (c *Client) Delete(path string) *Request { return c.newRequest(gohttp.MethodDelete, path) }

func (c *Client) newRequest(method, path string) *Request {
	return &Request{
		client:    c,
		method:    method,
		url:       c.base + "/" + strings.TrimLeft(path, "/"),
		headers:   map[string]string{"Accept": "application/json"},
		timeout:   c.timeout,
		retries:   1,
		retryWait: 200 * time.Millisecond,
		ctx:       context.Background(),
	}
}

// ------------------- Request -------------------

// Request is a fluent HTTP request builder.
type Request struct {
	client    *Client
	method    string
	url       string
	query     url.Values
	headers   map[string]string
	body      interface{}
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Query sets the query string.
func (r *Request) Query(q url.Values) *Request {
	r.query = q
	return r
}

// Body sets the request body. v is marshalled to JSON; []byte is sent as is.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry configures retries of transport failures. n is total attempts
// (1 = no retry), wait is the initial backoff (doubles each attempt).
// HTTP error statuses are responses, not failures, and are never retried.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n < 1 {
		n = 1
	}
	r.retries = n
	r.retryWait = wait
	return r
}

// WithContext sets the parent context; cancelling it aborts the request and
// any pending retry.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// URL is the fully resolved request URL.
func (r *Request) URL() string {
	if len(r.query) == 0 {
		return r.url
	}
	return r.url + "?" + r.query.Encode()
}

// ------------------- Send -------------------

// Send executes the request and returns a Response.
func (r *Request) Send() (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt == r.retries || r.ctx.Err() != nil {
			break
		}

		backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
		logger.WithCtx(r.ctx).Warn("http: request failed, retrying",
			"url", r.URL(), "attempt", attempt, "backoff", backoff, "error", err)

		timer := time.NewTimer(backoff)
		select {
		case <-r.ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("http: %s %s: %w", r.method, r.URL(), r.ctx.Err())
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("http: %s %s: %w", r.method, r.URL(), lastErr)
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	reqid.Inject(req)

	resp, err := r.client.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	if b, ok := r.body.([]byte); ok {
		return bytes.NewReader(b), "application/json", nil
	}
	b, err := json.Marshal(r.body)
	if err != nil {
		return nil, "", fmt.Errorf("http: marshal body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

// ------------------- Response -------------------

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Header returns a single response header value.
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}
