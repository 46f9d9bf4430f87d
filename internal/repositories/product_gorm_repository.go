package repositories

import (
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products with their categories.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Category").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.ProductNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetAllByIDs retrieves the products matching the given IDs. IDs without a
// record are simply absent from the result; the result may be smaller than
// the request.
func (r *GORMProductRepository) GetAllByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Category").Find(&products, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// SearchByName retrieves products whose name contains the given substring,
// case-insensitively.
func (r *GORMProductRepository) SearchByName(name string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + name + "%"
	if err := r.db.Preload("Category").Where("LOWER(name) LIKE LOWER(?)", pattern).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", name, err)
	}
	return products, nil
}

// Exists reports whether a product with the given ID exists.
func (r *GORMProductRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product %d: %w", id, err)
	}
	return count > 0, nil
}

// Count returns the number of products in the catalog.
func (r *GORMProductRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Create creates a new product. The store assigns the ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product, replacing all fields.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save doesn't return ErrRecordNotFound for an update that matched
		// nothing, so we check RowsAffected.
		return &models.ProductNotFoundError{ID: product.ID}
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.ProductNotFoundError{ID: id}
	}
	return nil
}

// DeductStock applies the whole batch inside one transaction. Each deduction
// is a conditional update (stock >= quantity) so a concurrent reservation
// that drained a product since validation shows up as zero affected rows;
// the transaction then rolls back, leaving no partial commit.
func (r *GORMProductRepository) DeductStock(deductions []models.StockDeduction) ([]models.Product, error) {
	updated := make([]models.Product, 0, len(deductions))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var short []uint
		for _, d := range deductions {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", d.ProductID, d.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", d.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to deduct stock for product %d: %w", d.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				short = append(short, d.ProductID)
			}
		}
		if len(short) > 0 {
			return &models.NotEnoughStockError{IDs: short}
		}
		for _, d := range deductions {
			var product models.Product
			if err := tx.Preload("Category").First(&product, "id = ?", d.ProductID).Error; err != nil {
				return fmt.Errorf("failed to reload product %d after deduction: %w", d.ProductID, err)
			}
			updated = append(updated, product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
