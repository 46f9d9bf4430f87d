package models

import "github.com/shopspring/decimal"

// ProductDTO is the projection of a product after discounting: the price is
// the customer-facing, category-discounted value. The same shape is sent to
// the cart service when a product changes.
type ProductDTO struct {
	ID     uint            `json:"id"`
	Price  decimal.Decimal `json:"price"`
	Stock  int             `json:"stock"`
	Weight float64         `json:"weight"`
}
