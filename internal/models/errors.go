package models

import "fmt"

// ProductNotFoundError is returned when a single referenced product ID does
// not exist in the store.
type ProductNotFoundError struct {
	ID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ID)
}

// ProductsNotFoundError is returned when a bulk lookup could not resolve
// every requested ID. IDs holds the missing ones in request order.
type ProductsNotFoundError struct {
	IDs []uint
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("product IDs not found: %v", e.IDs)
}

// NotEnoughStockError is returned when a reservation asks for more units than
// a product has available. IDs holds every product that failed the check, not
// just the first.
type NotEnoughStockError struct {
	IDs []uint
}

func (e *NotEnoughStockError) Error() string {
	return fmt.Sprintf("product IDs without required stock: %v", e.IDs)
}

// CategoryNotFoundError is returned by the category store when a name has no
// record. Callers resolving categories treat it as the trigger for the
// fallback rule.
type CategoryNotFoundError struct {
	Name string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %q not found", e.Name)
}
