package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign is a crowdfunding campaign run by a seller. Read-only on the
// client; funding happens server-side.
type Campaign struct {
	ID           string          `json:"_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Seller       string          `json:"seller"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	RaisedAmount decimal.Decimal `json:"raisedAmount"`
	Deadline     time.Time       `json:"deadline"`
	Active       bool            `json:"active"`
}

// PercentFunded reports funding progress in whole percent, capped at 100.
func (c *Campaign) PercentFunded() int {
	if c.TargetAmount.IsZero() {
		return 0
	}
	pct := c.RaisedAmount.Div(c.TargetAmount).Mul(decimal.NewFromInt(100)).IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}
