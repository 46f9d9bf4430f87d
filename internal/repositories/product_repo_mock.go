package repositories

import (
	"sort"
	"strings"
	"sync"

	"catalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products in ID order.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, &models.ProductNotFoundError{ID: id}
	}
	return &product, nil
}

// GetAllByIDs returns the products found for the given IDs, in ID order.
// Missing IDs are silently skipped.
func (r *MockProductRepository) GetAllByIDs(ids []uint) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[uint]bool, len(ids))
	found := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.products[id]; ok {
			found = append(found, p)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

// SearchByName returns products whose name contains the substring, ignoring
// case.
func (r *MockProductRepository) SearchByName(name string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	var found []models.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			found = append(found, p)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

// Exists reports whether the ID has a product.
func (r *MockProductRepository) Exists(id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// Count returns the number of stored products.
func (r *MockProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.products)), nil
}

// Create adds a new product, assigning the next ID if none is set.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return &models.ProductNotFoundError{ID: product.ID}
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return &models.ProductNotFoundError{ID: id}
	}
	delete(r.products, id)
	return nil
}

// DeductStock checks and applies the whole batch under the write lock, so
// concurrent reservations serialize here and can never both pass the check
// against the same stock.
func (r *MockProductRepository) DeductStock(deductions []models.StockDeduction) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var short []uint
	for _, d := range deductions {
		p, ok := r.products[d.ProductID]
		if !ok || p.Stock < d.Quantity {
			short = append(short, d.ProductID)
		}
	}
	if len(short) > 0 {
		return nil, &models.NotEnoughStockError{IDs: short}
	}

	updated := make([]models.Product, 0, len(deductions))
	for _, d := range deductions {
		p := r.products[d.ProductID]
		p.Stock -= d.Quantity
		r.products[d.ProductID] = p
		updated = append(updated, p)
	}
	return updated, nil
}
