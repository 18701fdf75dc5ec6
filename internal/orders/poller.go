// Package orders reconciles two independent remote status sources, the
// order-confirmation workflow and courier tracking, into one display model.
package orders

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"agrimart/internal/metrics"
	"agrimart/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// API is the slice of the backend client the poller needs.
type API interface {
	UserOrders(ctx context.Context) ([]model.Order, error)
	CourierStatus(ctx context.Context, orderID string) (model.CourierInfo, error)
}

// Poller periodically refreshes the order list and the per-order courier
// status. State is published once per refresh: consumers never observe a
// partially merged batch.
type Poller struct {
	mu     sync.RWMutex
	orders []model.Order
	byID   map[string]int

	api            API
	interval       time.Duration
	manualInFlight atomic.Bool
	onAuthExpired  func()
	logger         zerolog.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithAuthExpiredHandler registers the re-authentication hook invoked when
// the order-list fetch is rejected with 401.
func WithAuthExpiredHandler(fn func()) Option {
	return func(p *Poller) {
		p.onAuthExpired = fn
	}
}

// NewPoller creates an order status poller.
func NewPoller(client API, interval time.Duration, logger zerolog.Logger, opts ...Option) *Poller {
	p := &Poller{
		byID:     map[string]int{},
		api:      client,
		interval: interval,
		logger:   logger.With().Str("component", "order-poller").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run refreshes immediately and then on every tick until the context is
// cancelled. A tick is skipped while a manual single-order refresh is in
// flight, so the two scopes never overlap.
func (p *Poller) Run(ctx context.Context) {
	if err := p.RefreshAll(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("initial order refresh failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.manualInFlight.Load() {
				p.logger.Debug().Msg("skipping periodic refresh, manual refresh in flight")
				continue
			}
			if err := p.RefreshAll(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("periodic order refresh failed")
			}
		}
	}
}

// RefreshAll fetches the full order list, then every order's courier status
// concurrently, and publishes the merged result as one state update. A
// courier failure for one order degrades that order to the default courier
// info without failing the batch. A failed list fetch clears the displayed
// list; 401 additionally signals re-authentication.
func (p *Poller) RefreshAll(ctx context.Context) error {
	list, err := p.fetchOrderList(ctx)
	if err != nil {
		p.clear()
		metrics.RecordPollCycle("orders", false)
		if errors.Is(err, model.ErrUnauthorised) && p.onAuthExpired != nil {
			p.onAuthExpired()
		}
		return err
	}

	couriers := p.fetchCouriers(ctx, list)
	for i := range list {
		list[i].Courier = couriers[i]
	}

	p.mu.Lock()
	p.orders = list
	p.byID = make(map[string]int, len(list))
	for i, o := range list {
		p.byID[o.ID] = i
	}
	p.mu.Unlock()

	metrics.RecordPollCycle("orders", true)
	p.logger.Debug().Int("count", len(list)).Msg("orders refreshed")
	return nil
}

// fetchOrderList retrieves the order list with retry on transient errors.
// Auth and business failures are not retried.
func (p *Poller) fetchOrderList(ctx context.Context) ([]model.Order, error) {
	var list []model.Order

	op := func() error {
		var err error
		list, err = p.api.UserOrders(ctx)
		if err != nil {
			var domainErr *model.DomainError
			if errors.As(err, &domainErr) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return list, nil
}

// fetchCouriers issues one courier-status fetch per order concurrently and
// joins the results by index. A failed fetch yields the default courier
// info for that order only.
func (p *Poller) fetchCouriers(ctx context.Context, list []model.Order) []model.CourierInfo {
	results := make([]model.CourierInfo, len(list))

	var wg sync.WaitGroup
	for i, order := range list {
		wg.Add(1)
		go func(idx int, orderID string) {
			defer wg.Done()

			info, err := p.api.CourierStatus(ctx, orderID)
			if err != nil {
				p.logger.Warn().
					Err(err).
					Str("order_id", orderID).
					Msg("courier status fetch failed, using default")
				metrics.RecordCourierFallback()
				results[idx] = model.DefaultCourierInfo()
				return
			}
			results[idx] = info
		}(i, order.ID)
	}
	wg.Wait()

	return results
}

// RefreshOne re-fetches courier status for a single order and merges it in
// place. The order's confirmation status is never touched. Periodic full
// refreshes are suppressed for the duration.
func (p *Poller) RefreshOne(ctx context.Context, orderID string) error {
	p.manualInFlight.Store(true)
	defer p.manualInFlight.Store(false)

	info, err := p.api.CourierStatus(ctx, orderID)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("order_id", orderID).
			Msg("manual courier refresh failed, using default")
		metrics.RecordCourierFallback()
		info = model.DefaultCourierInfo()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.byID[orderID]
	if !ok {
		return model.NewDomainError(model.ErrCodeMissingField, "order not in current list")
	}
	p.orders[i].Courier = info
	return nil
}

// Orders returns a copy of the current merged order list.
func (p *Poller) Orders() []model.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Order, len(p.orders))
	copy(out, p.orders)
	return out
}

// Order looks up one order from the current snapshot.
func (p *Poller) Order(orderID string) (model.Order, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i, ok := p.byID[orderID]
	if !ok {
		return model.Order{}, false
	}
	return p.orders[i], true
}

func (p *Poller) clear() {
	p.mu.Lock()
	p.orders = nil
	p.byID = map[string]int{}
	p.mu.Unlock()
}
