package repositories

import (
	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// GetByID returns *models.ProductNotFoundError for unknown IDs. GetAllByIDs
// returns only the products it finds, in store order; resolving the missing
// set is the caller's job. DeductStock is the only compound operation: it is
// the commit primitive for reservations and must be atomic across the batch.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetAllByIDs(ids []uint) ([]models.Product, error)
	SearchByName(name string) ([]models.Product, error)
	Exists(id uint) (bool, error)
	Count() (int64, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error

	// DeductStock subtracts each deduction's quantity from its product's
	// stock, re-checking availability at commit time. Either every deduction
	// applies or none does; a product whose stock was drained by a concurrent
	// caller since validation makes the whole batch fail with
	// *models.NotEnoughStockError. Returns the updated products in deduction
	// order.
	DeductStock(deductions []models.StockDeduction) ([]models.Product, error)
}
