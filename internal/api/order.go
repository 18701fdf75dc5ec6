package api

import (
	"context"
	"net/http"

	"agrimart/internal/model"

	"github.com/google/uuid"
)

type placeOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// PlaceOrder submits a checkout. The request carries an idempotency key so
// a retried submit cannot place the order twice.
func (c *Client) PlaceOrder(ctx context.Context, req model.PlaceOrderRequest) (string, error) {
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.NewString())

	var resp placeOrderResponse
	err := c.do(ctx, request{
		op:     "order_place",
		method: http.MethodPost,
		path:   "/api/order/place",
		body:   req,
		authed: true,
		header: header,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

type userOrdersResponse struct {
	Success bool          `json:"success"`
	Orders  []model.Order `json:"orders"`
}

// UserOrders fetches the caller's order list.
func (c *Client) UserOrders(ctx context.Context) ([]model.Order, error) {
	var resp userOrdersResponse
	err := c.do(ctx, request{
		op:     "order_list",
		method: http.MethodGet,
		path:   "/api/order/userorders",
		authed: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

type courierStatusResponse struct {
	Success     bool   `json:"success"`
	Status      string `json:"status"`
	CourierName string `json:"courierName"`
}

// CourierStatus fetches the delivery sub-status for one order from the
// tracking source, which is independent of the order workflow.
func (c *Client) CourierStatus(ctx context.Context, orderID string) (model.CourierInfo, error) {
	var resp courierStatusResponse
	err := c.do(ctx, request{
		op:     "courier_status",
		method: http.MethodGet,
		path:   "/api/courier-status/" + orderID,
		authed: true,
	}, &resp)
	if err != nil {
		return model.CourierInfo{}, err
	}
	return model.CourierInfo{
		Status:      resp.Status,
		CourierName: resp.CourierName,
		Source:      model.CourierSourceLive,
	}, nil
}
