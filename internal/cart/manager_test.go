package cart

import (
	"context"
	"errors"
	"testing"

	"agrimart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubCatalog is a fixed product lookup for cart tests.
type stubCatalog struct {
	products map[string]model.Product
}

func (s stubCatalog) Product(id string) (model.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// MockOrderPlacer is a mock implementation of OrderPlacer.
type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) PlaceOrder(ctx context.Context, req model.PlaceOrderRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testCatalog() stubCatalog {
	return stubCatalog{products: map[string]model.Product{
		"A": {ID: "A", Name: "Mangoes", Price: price("10.00"), Stock: 5},
		"B": {ID: "B", Name: "Rice", Price: price("5.00"), Stock: 3},
		"Z": {ID: "Z", Name: "Out of season", Price: price("7.50"), Stock: 0},
	}}
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(testCatalog(), &MockOrderPlacer{}, NewMemoryStore(), price("50"), zerolog.Nop(), opts...)
	require.NoError(t, err)
	return m
}

func TestManager_AddItem(t *testing.T) {
	tests := []struct {
		name        string
		productID   string
		adds        int
		expectQty   int
		expectFired int
	}{
		{
			name:        "Adding creates the line",
			productID:   "A",
			adds:        1,
			expectQty:   1,
			expectFired: 1,
		},
		{
			name:        "Repeated adds increment",
			productID:   "A",
			adds:        3,
			expectQty:   3,
			expectFired: 3,
		},
		{
			name:        "Zero stock is a silent no-op",
			productID:   "Z",
			adds:        2,
			expectQty:   0,
			expectFired: 0,
		},
		{
			name:        "Unknown product is a silent no-op",
			productID:   "missing",
			adds:        1,
			expectQty:   0,
			expectFired: 0,
		},
		{
			name:        "Adds stop at the stock bound",
			productID:   "B",
			adds:        5,
			expectQty:   3,
			expectFired: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := 0
			m := newTestManager(t, WithAddedSignal(func(model.Product) { fired++ }))

			for i := 0; i < tt.adds; i++ {
				m.AddItem(tt.productID)
			}

			assert.Equal(t, tt.expectQty, m.Quantity(tt.productID))
			assert.Equal(t, tt.expectFired, fired)
		})
	}
}

func TestManager_SetQuantity(t *testing.T) {
	m := newTestManager(t)

	m.SetQuantity("A", 4)
	assert.Equal(t, 4, m.Quantity("A"))

	// No clamp: a quantity above cached stock is stored as given.
	m.SetQuantity("B", 10)
	assert.Equal(t, 10, m.Quantity("B"))

	// Zero and negative remove the line entirely.
	m.SetQuantity("A", 0)
	assert.Equal(t, 0, m.Quantity("A"))
	m.SetQuantity("B", -1)
	assert.Empty(t, m.Lines())
}

func TestManager_RemoveItem(t *testing.T) {
	m := newTestManager(t)
	m.SetQuantity("A", 2)

	m.RemoveItem("A")

	assert.Equal(t, 0, m.Quantity("A"))
	assert.Empty(t, m.Lines())
}

func TestManager_Subtotal(t *testing.T) {
	m := newTestManager(t)

	assert.True(t, m.Subtotal().IsZero(), "empty cart subtotal must be zero")

	m.SetQuantity("A", 2)
	m.SetQuantity("B", 1)
	assert.True(t, m.Subtotal().Equal(price("25.00")))

	// Removing a line removes its contribution exactly.
	m.RemoveItem("B")
	assert.True(t, m.Subtotal().Equal(price("20.00")))
}

func TestManager_Total(t *testing.T) {
	catalog := stubCatalog{products: map[string]model.Product{
		"A": {ID: "A", Price: price("10.00"), Stock: 5},
		"B": {ID: "B", Price: price("5.00"), Stock: 5},
	}}
	m, err := NewManager(catalog, &MockOrderPlacer{}, NewMemoryStore(), price("5.00"), zerolog.Nop())
	require.NoError(t, err)

	m.SetQuantity("A", 2)
	m.SetQuantity("B", 1)

	assert.True(t, m.Total().Equal(price("30.00")), "got %s", m.Total())
}

func TestManager_Clear(t *testing.T) {
	m := newTestManager(t)
	m.SetQuantity("A", 2)
	m.SetQuantity("B", 1)

	m.Clear()

	assert.Empty(t, m.Lines())
	assert.True(t, m.Subtotal().IsZero())
}

func TestManager_Checkout(t *testing.T) {
	address := model.Address{FullName: "Test Buyer", City: "Davao"}

	t.Run("Success clears the cart", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		m, err := NewManager(testCatalog(), placer, NewMemoryStore(), price("50"), zerolog.Nop())
		require.NoError(t, err)

		m.SetQuantity("A", 2)
		m.SetQuantity("B", 1)

		placer.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(req model.PlaceOrderRequest) bool {
			return len(req.Items) == 2 &&
				req.Items[0].ProductID == "A" &&
				req.Items[0].Quantity == 2 &&
				req.Items[0].Price.Equal(price("10.00")) &&
				req.Amount.Equal(price("75.00")) &&
				req.PaymentMethod == "COD"
		})).Return("order-1", nil)

		orderID, err := m.Checkout(context.Background(), address, "COD")
		require.NoError(t, err)
		assert.Equal(t, "order-1", orderID)
		assert.Empty(t, m.Lines(), "cart must be cleared after successful placement")
		placer.AssertExpectations(t)
	})

	t.Run("Empty cart is rejected locally", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		m, err := NewManager(testCatalog(), placer, NewMemoryStore(), price("50"), zerolog.Nop())
		require.NoError(t, err)

		_, err = m.Checkout(context.Background(), address, "COD")
		assert.ErrorIs(t, err, model.ErrEmptyCart)
		placer.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
	})

	t.Run("Server failure keeps the cart", func(t *testing.T) {
		placer := new(MockOrderPlacer)
		m, err := NewManager(testCatalog(), placer, NewMemoryStore(), price("50"), zerolog.Nop())
		require.NoError(t, err)

		m.SetQuantity("A", 1)
		placer.On("PlaceOrder", mock.Anything, mock.Anything).Return("", errors.New("stock changed"))

		_, err = m.Checkout(context.Background(), address, "COD")
		require.Error(t, err)
		assert.Equal(t, 1, m.Quantity("A"), "cart must survive a failed placement")
	})
}

func TestManager_RestoresFromStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save([]model.CartLine{
		{ProductID: "A", Quantity: 2},
		{ProductID: "B", Quantity: 0},
	}))

	m, err := NewManager(testCatalog(), &MockOrderPlacer{}, store, price("50"), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 2, m.Quantity("A"))
	assert.Equal(t, 0, m.Quantity("B"), "zero-quantity lines are not restored")
}
