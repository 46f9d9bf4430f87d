package services

import (
	"catalog/internal/models"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// DiscountedPrice computes the customer-facing price of a product: the base
// price reduced by its category's discount percentage, rounded to 2 fractional
// digits toward positive infinity so rounding never under-charges. The whole
// computation runs in decimal arithmetic; rounding happens only as the final
// step.
func DiscountedPrice(product *models.Product) decimal.Decimal {
	price := decimal.NewFromFloat(product.Price)
	discount := decimal.NewFromFloat(product.Category.Discount)
	factor := one.Sub(discount.Div(hundred))
	return price.Mul(factor).RoundCeil(2)
}
