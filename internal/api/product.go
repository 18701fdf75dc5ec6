package api

import (
	"context"
	"net/http"

	"agrimart/internal/model"
)

type productListResponse struct {
	Success  bool            `json:"success"`
	Products []model.Product `json:"products"`
}

// ListProducts fetches the full catalogue. Callers replace their cache
// wholesale; there is no incremental variant.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var resp productListResponse
	err := c.do(ctx, request{
		op:     "product_list",
		method: http.MethodGet,
		path:   "/api/product/list",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Products, nil
}
