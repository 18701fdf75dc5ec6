// Package catalog caches the remote product list. Refreshes are wholesale:
// the snapshot is replaced in full, never patched. Stock figures are
// advisory between refreshes; the server is authoritative at checkout.
package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"agrimart/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Lister fetches the full product list.
type Lister interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// Cache is the local product snapshot.
type Cache struct {
	mu          sync.RWMutex
	products    []model.Product
	byID        map[string]int
	lastRefresh time.Time

	lister Lister
	logger zerolog.Logger
}

// NewCache creates an empty catalogue cache.
func NewCache(lister Lister, logger zerolog.Logger) *Cache {
	return &Cache{
		byID:   map[string]int{},
		lister: lister,
		logger: logger.With().Str("component", "catalog-cache").Logger(),
	}
}

// Refresh replaces the snapshot with the server's current list. Transient
// fetch errors are retried with exponential backoff; a business or auth
// failure is returned immediately and the previous snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context) error {
	var products []model.Product

	op := func() error {
		var err error
		products, err = c.lister.ListProducts(ctx)
		if err != nil {
			var domainErr *model.DomainError
			if errors.As(err, &domainErr) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	policy := backoff.WithContext(refreshBackoff(), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		c.logger.Warn().Err(err).Msg("catalogue refresh failed, keeping previous snapshot")
		return err
	}

	c.mu.Lock()
	c.products = products
	c.byID = make(map[string]int, len(products))
	for i, p := range products {
		c.byID[p.ID] = i
	}
	c.lastRefresh = time.Now()
	c.mu.Unlock()

	c.logger.Debug().Int("count", len(products)).Msg("catalogue refreshed")
	return nil
}

func refreshBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	return b
}

// Products returns a copy of the current snapshot.
func (c *Cache) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks up one product by ID.
func (c *Cache) Product(id string) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Stock returns the last known stock for a product, 0 when unknown.
func (c *Cache) Stock(id string) int {
	p, ok := c.Product(id)
	if !ok {
		return 0
	}
	return p.Stock
}

// Price returns the last known price for a product.
func (c *Cache) Price(id string) (decimal.Decimal, bool) {
	p, ok := c.Product(id)
	if !ok {
		return decimal.Zero, false
	}
	return p.Price, true
}

// LastRefresh reports when the snapshot was last replaced, zero if never.
func (c *Cache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}
