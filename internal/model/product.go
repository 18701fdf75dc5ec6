package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend serialises money as bare JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalogue entry owned by the remote backend.
// Products are refreshed wholesale and never mutated locally.
type Product struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Images    []string        `json:"images"`
	Category  string          `json:"category"`
	Seller    string          `json:"seller"`
	CreatedAt time.Time       `json:"createdAt"`
}

// InStock reports whether at least one unit is available according to the
// latest catalogue snapshot. The server remains authoritative at checkout.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
