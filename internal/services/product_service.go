package services

import (
	"encoding/json"
	"log"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// CartClient notifies the downstream cart service of a product's new state.
// It returns the message on acceptance and a connection or response error
// otherwise.
type CartClient interface {
	UpdateProduct(dto models.ProductDTO) (models.ProductDTO, error)
}

// EventPublisher publishes catalog events. A nil publisher disables eventing.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductService owns the catalog's business logic: creation with category
// fallback, the two-phase update protocol against the cart service, and
// batch stock reservation.
type ProductService struct {
	productRepo repositories.ProductRepository
	categories  *CategoryService
	cart        CartClient
	events      EventPublisher
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categories *CategoryService, cart CartClient, events EventPublisher) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		categories:  categories,
		cart:        cart,
		events:      events,
	}
}

// CreateProduct creates a product from a request, resolving its category
// (unknown names land in the fallback category instead of failing).
func (s *ProductService) CreateProduct(request models.ProductRequest) (*models.Product, error) {
	category, err := s.categories.Resolve(request.Category)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        request.Name,
		Description: request.Description,
		Price:       request.Price,
		Stock:       request.Stock,
		Weight:      request.Weight,
	}
	product.SetCategory(category)

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateProducts creates a batch of products, one by one in request order.
func (s *ProductService) CreateProducts(requests []models.ProductRequest) ([]models.Product, error) {
	products := make([]models.Product, 0, len(requests))
	for _, request := range requests {
		product, err := s.CreateProduct(request)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

// UpdateProduct replaces every field of an existing product and drives the
// notify-before-persist protocol: the cart service is told about the new
// state first, and only its acceptance lets the mutation reach the store. On
// any cart failure the in-memory changes are dropped and the persisted record
// stays untouched, so the partner's view never diverges from ours.
//
// Two concurrent updates to the same ID are last-write-wins; each one still
// notifies the cart with exactly the state it then persists.
func (s *ProductService) UpdateProduct(id uint, request models.ProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.Resolve(request.Category)
	if err != nil {
		return nil, err
	}

	product.Name = request.Name
	product.Description = request.Description
	product.Price = request.Price
	product.Stock = request.Stock
	product.Weight = request.Weight
	product.SetCategory(category)

	if _, err := s.cart.UpdateProduct(s.BuildProductDTO(product)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.updated", map[string]interface{}{
		"productID": product.ID,
		"category":  product.CategoryName,
		"price":     product.Price,
		"stock":     product.Stock,
	})

	return product, nil
}

// DeleteProduct deletes a product by its ID, failing with
// *models.ProductNotFoundError when the ID has no record.
func (s *ProductService) DeleteProduct(id uint) error {
	exists, err := s.productRepo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return &models.ProductNotFoundError{ID: id}
	}
	return s.productRepo.Delete(id)
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// ListProductByID retrieves a single product by its ID.
func (s *ProductService) ListProductByID(id uint) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// SearchProductsByName retrieves products whose name contains the substring,
// ignoring case.
func (s *ProductService) SearchProductsByName(name string) ([]models.Product, error) {
	return s.productRepo.SearchByName(name)
}

// CountProducts returns the number of products in the catalog.
func (s *ProductService) CountProducts() (int64, error) {
	return s.productRepo.Count()
}

// ProductDTOsWithIDs returns discounted-price projections for the given IDs,
// failing with *models.ProductsNotFoundError when any ID is unknown.
func (s *ProductService) ProductDTOsWithIDs(ids []uint) ([]models.ProductDTO, error) {
	products, err := s.getProductsWithIDs(ids)
	if err != nil {
		return nil, err
	}
	return s.BuildProductDTOs(products), nil
}

// Reserve consumes stock for a batch of submission lines, all or nothing.
//
// Three phases: resolve every referenced product in one bulk lookup (missing
// IDs fail the batch before anything else happens), validate that each
// product covers its requested quantity (every failing ID is reported, stock
// untouched), then commit the deductions through the repository's atomic
// batch primitive. A concurrent reservation that drained stock between
// validate and commit makes the commit fail the same way, with no partial
// mutation.
//
// When the batch holds duplicate lines for one product, only the first
// matching line counts; later duplicates are ignored.
func (s *ProductService) Reserve(lines []models.ProductToSubmit) ([]models.ProductDTO, error) {
	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}

	products, err := s.getProductsWithIDs(ids)
	if err != nil {
		return nil, err
	}

	var short []uint
	for i := range products {
		quantity, ok := requestedQuantity(products[i].ID, lines)
		if ok && products[i].Stock < quantity {
			short = append(short, products[i].ID)
		}
	}
	if len(short) > 0 {
		return nil, &models.NotEnoughStockError{IDs: short}
	}

	deductions := make([]models.StockDeduction, 0, len(products))
	for i := range products {
		if quantity, ok := requestedQuantity(products[i].ID, lines); ok {
			deductions = append(deductions, models.StockDeduction{
				ProductID: products[i].ID,
				Quantity:  quantity,
			})
		}
	}

	updated, err := s.productRepo.DeductStock(deductions)
	if err != nil {
		return nil, err
	}

	s.publishEvent("stock.reserved", map[string]interface{}{
		"deductions": deductions,
	})

	return s.BuildProductDTOs(updated), nil
}

// BuildProductDTO projects a product into its discounted-price DTO.
func (s *ProductService) BuildProductDTO(product *models.Product) models.ProductDTO {
	return models.ProductDTO{
		ID:     product.ID,
		Price:  DiscountedPrice(product),
		Stock:  product.Stock,
		Weight: product.Weight,
	}
}

// BuildProductDTOs projects a slice of products, preserving order.
func (s *ProductService) BuildProductDTOs(products []models.Product) []models.ProductDTO {
	dtos := make([]models.ProductDTO, len(products))
	for i := range products {
		dtos[i] = s.BuildProductDTO(&products[i])
	}
	return dtos
}

// getProductsWithIDs resolves the given IDs in one bulk lookup. When any are
// missing it fails with the missing set, reported in request order.
func (s *ProductService) getProductsWithIDs(ids []uint) ([]models.Product, error) {
	products, err := s.productRepo.GetAllByIDs(ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint]bool, len(products))
	for i := range products {
		found[products[i].ID] = true
	}

	var missing []uint
	reported := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !found[id] && !reported[id] {
			missing = append(missing, id)
			reported[id] = true
		}
	}
	if len(missing) > 0 {
		return nil, &models.ProductsNotFoundError{IDs: missing}
	}
	return products, nil
}

// requestedQuantity finds the first submission line for the product ID.
func requestedQuantity(id uint, lines []models.ProductToSubmit) (int, bool) {
	for _, line := range lines {
		if line.ID == id {
			return line.Stock, true
		}
	}
	return 0, false
}

// publishEvent sends a catalog event, best-effort. Event failures are logged
// and never fail the operation that triggered them.
func (s *ProductService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}
