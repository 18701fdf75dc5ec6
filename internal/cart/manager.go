// Package cart holds the order-in-progress: a quantity-per-product map
// validated against the cached catalogue.
package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"agrimart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Catalog supplies product metadata for stock checks and pricing. Backed by
// the catalogue cache; stock numbers are advisory only.
type Catalog interface {
	Product(id string) (model.Product, bool)
}

// OrderPlacer submits a checkout to the backend.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req model.PlaceOrderRequest) (string, error)
}

// Manager maintains cart lines, enforcing non-negative, stock-bounded
// quantities, and computes totals from the latest cached prices.
type Manager struct {
	mu    sync.Mutex
	lines map[string]int

	catalog Catalog
	orders  OrderPlacer
	store   Store
	fee     decimal.Decimal
	onAdded func(model.Product)
	logger  zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithAddedSignal registers the user-visible success signal fired after an
// item lands in the cart.
func WithAddedSignal(fn func(model.Product)) Option {
	return func(m *Manager) {
		m.onAdded = fn
	}
}

// NewManager creates a cart manager, restoring any lines held by the store.
func NewManager(catalog Catalog, orders OrderPlacer, store Store, deliveryFee decimal.Decimal, logger zerolog.Logger, opts ...Option) (*Manager, error) {
	m := &Manager{
		lines:   map[string]int{},
		catalog: catalog,
		orders:  orders,
		store:   store,
		fee:     deliveryFee,
		logger:  logger.With().Str("component", "cart").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	saved, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	for _, line := range saved {
		if line.Quantity > 0 {
			m.lines[line.ProductID] = line.Quantity
		}
	}

	return m, nil
}

// AddItem increments the quantity for a product by one, creating the line
// if absent. A product with no known stock, or one already at its stock
// bound, is a silent no-op.
func (m *Manager) AddItem(productID string) {
	product, ok := m.catalog.Product(productID)
	if !ok || product.Stock == 0 {
		m.logger.Debug().Str("product_id", productID).Msg("add skipped, no stock")
		return
	}

	m.mu.Lock()
	if m.lines[productID] >= product.Stock {
		m.mu.Unlock()
		m.logger.Debug().
			Str("product_id", productID).
			Int("stock", product.Stock).
			Msg("add skipped, quantity at stock bound")
		return
	}
	m.lines[productID]++
	m.persistLocked()
	m.mu.Unlock()

	if m.onAdded != nil {
		m.onAdded(product)
	}
}

// SetQuantity sets the quantity for a product. Zero or negative removes the
// line. The quantity is not clamped to stock; a value above the cached
// stock is stored as given and logged, and the server rejects it at
// checkout if still over.
func (m *Manager) SetQuantity(productID string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 {
		delete(m.lines, productID)
		m.persistLocked()
		return
	}

	if p, ok := m.catalog.Product(productID); ok && n > p.Stock {
		m.logger.Warn().
			Str("product_id", productID).
			Int("quantity", n).
			Int("stock", p.Stock).
			Msg("quantity exceeds cached stock")
	}

	m.lines[productID] = n
	m.persistLocked()
}

// RemoveItem deletes the line for a product.
func (m *Manager) RemoveItem(productID string) {
	m.SetQuantity(productID, 0)
}

// Quantity returns the current quantity for a product, 0 when absent.
func (m *Manager) Quantity(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lines[productID]
}

// Lines returns the cart contents sorted by product ID.
func (m *Manager) Lines() []model.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.linesLocked()
}

func (m *Manager) linesLocked() []model.CartLine {
	out := make([]model.CartLine, 0, len(m.lines))
	for id, qty := range m.lines {
		out = append(out, model.CartLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Subtotal sums price times quantity over all lines using the latest cached
// prices. An empty cart yields zero; a product missing from the catalogue
// contributes nothing until the next refresh restores its price.
func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for id, qty := range m.lines {
		p, ok := m.catalog.Product(id)
		if !ok {
			m.logger.Warn().Str("product_id", id).Msg("cart line missing from catalogue")
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// Total is the subtotal plus the fixed delivery fee.
func (m *Manager) Total() decimal.Decimal {
	return m.Subtotal().Add(m.fee)
}

// Clear empties the cart. Called once, immediately after a successful order
// placement.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = map[string]int{}
	m.persistLocked()
}

// Checkout places the order for the current cart contents and clears the
// cart only after the server accepts it.
func (m *Manager) Checkout(ctx context.Context, address model.Address, paymentMethod string) (string, error) {
	m.mu.Lock()
	lines := m.linesLocked()
	m.mu.Unlock()

	if len(lines) == 0 {
		return "", model.ErrEmptyCart
	}

	items := make([]model.OrderItem, 0, len(lines))
	amount := m.fee
	for _, line := range lines {
		p, ok := m.catalog.Product(line.ProductID)
		if !ok {
			return "", model.NewDomainError(model.ErrCodeMissingField,
				fmt.Sprintf("product %s is no longer available", line.ProductID))
		}
		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
		amount = amount.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	orderID, err := m.orders.PlaceOrder(ctx, model.PlaceOrderRequest{
		Address:       address,
		Items:         items,
		Amount:        amount,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return "", err
	}

	m.Clear()
	m.logger.Info().Str("order_id", orderID).Int("line_count", len(items)).Msg("order placed")
	return orderID, nil
}

// persistLocked writes the current lines through to the store. A store
// failure keeps the in-memory cart intact.
func (m *Manager) persistLocked() {
	if err := m.store.Save(m.linesLocked()); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist cart")
	}
}
