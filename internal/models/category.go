package models

// FallbackCategoryName is the sentinel category assigned to products whose
// requested category is unknown. It carries a 0% discount and is seeded at
// startup together with the regular categories.
const FallbackCategoryName = "other"

// Category groups products and defines the discount applied to their price.
// Categories are identified by name and rarely change once referenced.
type Category struct {
	Name     string  `json:"name" gorm:"primaryKey;type:varchar(100)" validate:"required"`
	Discount float64 `json:"discount" validate:"gte=0,lte=100"` // percentage in [0,100]
}
