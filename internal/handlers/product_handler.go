package handlers

import (
	"errors"
	"log"
	"strconv"

	"catalog/internal/models"
	"catalog/internal/services"
	"catalog/pkg/cartclient"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public (read-only) product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/count", h.HandleCountProducts)
	productRoutes.Get("/search/:name", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/quotes", h.HandlePriceQuotes)
}

// RegisterProtectedRoutes registers the mutating product routes; callers are
// expected to put these behind the auth middleware.
func (h *ProductHandler) RegisterProtectedRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/batch", h.HandleCreateProducts)
	productRoutes.Post("/reserve", h.HandleReserve)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts retrieves all products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return h.errorResponse(c, err)
	}
	return c.JSON(products)
}

// HandleCountProducts returns the number of products in the catalog.
func (h *ProductHandler) HandleCountProducts(c *fiber.Ctx) error {
	count, err := h.service.CountProducts()
	if err != nil {
		log.Printf("Error counting products: %v", err)
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, ok, resp := parseProductID(c)
	if !ok {
		return resp
	}

	product, err := h.service.ListProductByID(id)
	if err != nil {
		log.Printf("Error getting product %d: %v", id, err)
		return h.errorResponse(c, err)
	}
	return c.JSON(product)
}

// HandleSearchProducts retrieves products whose name contains the given
// substring, ignoring case.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProductsByName(c.Params("name"))
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return h.errorResponse(c, err)
	}
	return c.JSON(products)
}

// HandlePriceQuotes returns discounted-price projections for a list of IDs.
func (h *ProductHandler) HandlePriceQuotes(c *fiber.Ctx) error {
	var ids []uint
	if err := c.BodyParser(&ids); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	dtos, err := h.service.ProductDTOsWithIDs(ids)
	if err != nil {
		log.Printf("Error building price quotes: %v", err)
		return h.errorResponse(c, err)
	}
	return c.JSON(dtos)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	request, resp := h.parseProductRequest(c)
	if request == nil {
		return resp
	}

	product, err := h.service.CreateProduct(*request)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleCreateProducts creates a batch of products.
func (h *ProductHandler) HandleCreateProducts(c *fiber.Ctx) error {
	var requests []models.ProductRequest
	if err := c.BodyParser(&requests); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	for i := range requests {
		if err := h.validate.Struct(requests[i]); err != nil {
			return h.validationResponse(c, err)
		}
	}

	products, err := h.service.CreateProducts(requests)
	if err != nil {
		log.Printf("Error creating products: %v", err)
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(products)
}

// HandleUpdateProduct replaces an existing product's fields. The cart service
// is notified first; a cart failure leaves the stored product untouched.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok, resp := parseProductID(c)
	if !ok {
		return resp
	}
	request, resp := h.parseProductRequest(c)
	if request == nil {
		return resp
	}

	product, err := h.service.UpdateProduct(id, *request)
	if err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return h.errorResponse(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok, resp := parseProductID(c)
	if !ok {
		return resp
	}

	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return h.errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleReserve consumes stock for a batch of submission lines, all or
// nothing, and returns the updated price quotes.
func (h *ProductHandler) HandleReserve(c *fiber.Ctx) error {
	var lines []models.ProductToSubmit
	if err := c.BodyParser(&lines); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	for i := range lines {
		if err := h.validate.Struct(lines[i]); err != nil {
			return h.validationResponse(c, err)
		}
	}

	dtos, err := h.service.Reserve(lines)
	if err != nil {
		log.Printf("Error reserving stock: %v", err)
		return h.errorResponse(c, err)
	}
	return c.JSON(dtos)
}

// parseProductRequest parses and validates the request body. On failure the
// 400 response has already been written and the returned request is nil; the
// handler should return the accompanying error as-is.
func (h *ProductHandler) parseProductRequest(c *fiber.Ctx) (*models.ProductRequest, error) {
	var request models.ProductRequest
	if err := c.BodyParser(&request); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(request); err != nil {
		return nil, h.validationResponse(c, err)
	}
	return &request, nil
}

func (h *ProductHandler) validationResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = e.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// errorResponse maps service errors to HTTP statuses: unknown IDs are 404,
// stock rejections 400, cart connection failures 500 and cart rejections 502.
func (h *ProductHandler) errorResponse(c *fiber.Ctx, err error) error {
	var notFound *models.ProductNotFoundError
	var notFoundMany *models.ProductsNotFoundError
	var noStock *models.NotEnoughStockError
	var cartConn *cartclient.CartConnectionError
	var cartResp *cartclient.CartResponseError

	switch {
	case errors.As(err, &notFound), errors.As(err, &notFoundMany):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.As(err, &noStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.As(err, &cartConn):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	case errors.As(err, &cartResp):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}

// parseProductID parses the :id route parameter. On failure the 400 response
// has already been written and ok is false.
func parseProductID(c *fiber.Ctx) (id uint, ok bool, resp error) {
	parsed, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a positive integer",
		})
	}
	return uint(parsed), true, nil
}
