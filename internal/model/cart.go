package model

// CartLine is one product/quantity pair in the order-in-progress. A
// quantity of zero is equivalent to absence from the cart.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
