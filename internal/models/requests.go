package models

// ProductRequest is the payload for creating or updating a product. The
// category is referenced by name; an unknown name resolves to the fallback
// category rather than failing the request.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Weight      float64 `json:"weight" validate:"gte=0"`
}

// ProductToSubmit is one line of a stock reservation: the product and the
// number of units the caller wants to consume. Not persisted.
type ProductToSubmit struct {
	ID    uint `json:"id" validate:"required"`
	Stock int  `json:"stock" validate:"gt=0"`
}

// StockDeduction is a resolved reservation line handed to the repository for
// the commit phase.
type StockDeduction struct {
	ProductID uint
	Quantity  int
}
