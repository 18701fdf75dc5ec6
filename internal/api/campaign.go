package api

import (
	"context"
	"net/http"

	"agrimart/internal/model"
)

type campaignListResponse struct {
	Success   bool             `json:"success"`
	Campaigns []model.Campaign `json:"campaigns"`
}

// AllCampaigns fetches every active crowdfunding campaign.
func (c *Client) AllCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var resp campaignListResponse
	err := c.do(ctx, request{
		op:     "campaign_list",
		method: http.MethodGet,
		path:   "/api/campaign/all",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Campaigns, nil
}

// SellerCampaigns fetches the campaigns run by one seller.
func (c *Client) SellerCampaigns(ctx context.Context, sellerID string) ([]model.Campaign, error) {
	var resp campaignListResponse
	err := c.do(ctx, request{
		op:     "campaign_seller_list",
		method: http.MethodGet,
		path:   "/api/campaign/seller/" + sellerID,
		authed: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Campaigns, nil
}
