// Package client is the data layer a product table UI sits on. It talks to
// the catalog REST API, normalizes error envelopes into *apierror.Error,
// caches query results and invalidates them after mutations.
//
//	c := client.New("http://localhost:8080/api/v1")
//	page, err := c.List(ctx, client.ListParams{Page: 1, PerPage: 10, Q: "lamp"})
//	switch {
//	case apierror.Is(err, apierror.KindValidation): // inline field messages
//	case err != nil:                                // toast + retry
//	}
package client

import (
	"context"
	"fmt"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/apierror"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	khttp "github.com/shashiranjanraj/catalog/pkg/http"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// DefaultCacheTTL bounds how long a cached query is served without a refetch.
const DefaultCacheTTL = 5 * time.Minute

// Client is safe for concurrent use.
type Client struct {
	http  *khttp.Client
	cache cache.Store
	ttl   time.Duration
}

type Option func(*Client)

// WithCache replaces the default in-process cache.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.ttl = ttl
	}
}

// WithHTTPClient sends requests through hc.
func WithHTTPClient(hc *gohttp.Client) Option {
	return func(c *Client) { c.http.WithHTTPClient(hc) }
}

// WithTimeout overrides the 10s per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.WithTimeout(d) }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:  khttp.NewClient(baseURL),
		cache: cache.NewMemoryStore(),
		ttl:   DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ─── Queries ──────────────────────────────────────────────────────────────────

// List returns one page of product summaries.
func (c *Client) List(ctx context.Context, p ListParams) (ProductPage, error) {
	var page ProductPage
	err := c.cached(ctx, ListKey(p), &page, func() error {
		return c.send(c.http.Get("/products").Query(p.Values()).WithContext(ctx), &page)
	})
	return page, err
}

// Get returns one product.
func (c *Client) Get(ctx context.Context, id uint) (Product, error) {
	var env struct {
		Data Product `json:"data"`
	}
	err := c.cached(ctx, DetailKey(id), &env.Data, func() error {
		return c.send(c.http.Get(productPath(id)).WithContext(ctx), &env)
	})
	return env.Data, err
}

// Audits returns the history of a product, oldest first.
func (c *Client) Audits(ctx context.Context, id uint) ([]Audit, error) {
	var env struct {
		Data []Audit `json:"data"`
	}
	err := c.cached(ctx, AuditsKey(id), &env.Data, func() error {
		return c.send(c.http.Get(productPath(id)+"/audits").WithContext(ctx), &env)
	})
	return env.Data, err
}

// ─── Mutations ────────────────────────────────────────────────────────────────

func (c *Client) Create(ctx context.Context, in ProductInput) (Product, error) {
	var env struct {
		Data Product `json:"data"`
	}
	if err := c.send(c.http.Post("/products").Body(in).WithContext(ctx), &env); err != nil {
		return Product{}, err
	}
	c.Invalidate(ctx, Change{Action: ActionCreate, ProductID: env.Data.ID})
	return env.Data, nil
}

// Update sends only the fields set in in.
func (c *Client) Update(ctx context.Context, id uint, in ProductInput) (Product, error) {
	var env struct {
		Data Product `json:"data"`
	}
	if err := c.send(c.http.Patch(productPath(id)).Body(in).WithContext(ctx), &env); err != nil {
		return Product{}, err
	}
	c.Invalidate(ctx, Change{Action: ActionUpdate, ProductID: id})
	return env.Data, nil
}

func (c *Client) Destroy(ctx context.Context, id uint) error {
	if err := c.send(c.http.Delete(productPath(id)).WithContext(ctx), nil); err != nil {
		return err
	}
	c.Invalidate(ctx, Change{Action: ActionDestroy, ProductID: id})
	return nil
}

// Invalidate drops the cache entries a change makes stale: every list page,
// and for updates and destroys that product's detail and audits.
func (c *Client) Invalidate(ctx context.Context, ch Change) {
	if err := c.cache.DelPrefix(ctx, listPrefix); err != nil {
		logger.WithCtx(ctx).Warn("client: list invalidation failed", "error", err)
	}
	if ch.Action == ActionCreate {
		return
	}
	if err := c.cache.Del(ctx, DetailKey(ch.ProductID), AuditsKey(ch.ProductID)); err != nil {
		logger.WithCtx(ctx).Warn("client: invalidation failed", "product_id", ch.ProductID, "error", err)
	}
}

// ─── Plumbing ─────────────────────────────────────────────────────────────────

// cached serves dest from the cache or runs fetch and stores the result.
// Failed fetches are never cached.
func (c *Client) cached(ctx context.Context, key string, dest interface{}, fetch func() error) error {
	if hit, err := c.cache.Get(ctx, key, dest); err == nil && hit {
		return nil
	} else if err != nil {
		logger.WithCtx(ctx).Warn("client: cache read failed", "key", key, "error", err)
	}

	if err := fetch(); err != nil {
		return err
	}
	if err := c.cache.Set(ctx, key, dest, c.ttl); err != nil {
		logger.WithCtx(ctx).Warn("client: cache write failed", "key", key, "error", err)
	}
	return nil
}

// send runs req and decodes a 2xx body into out. Every failure comes back as
// an *apierror.Error.
func (c *Client) send(req *khttp.Request, out interface{}) error {
	resp, err := req.Send()
	if err != nil {
		return apierror.Unknown(err)
	}
	if !resp.OK() {
		return apierror.Decode(resp.StatusCode, resp.Raw)
	}
	if out == nil || len(resp.Raw) == 0 {
		return nil
	}
	if err := resp.JSON(out); err != nil {
		return apierror.Unknown(err)
	}
	return nil
}

func productPath(id uint) string {
	return fmt.Sprintf("/products/%d", id)
}
