package models

// Product represents a catalog product. The ID is assigned by the store
// (autoincrement) and is never reused. Price, stock and weight must never be
// negative; the category reference is always set, falling back to the
// sentinel "other" category when the requested name is unknown.
type Product struct {
	ID           uint     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description" validate:"omitempty,max=500"`
	CategoryName string   `json:"-" gorm:"index;type:varchar(100)"`
	Category     Category `json:"category" gorm:"foreignKey:CategoryName;references:Name"`
	Price        float64  `json:"price" validate:"gte=0"`
	Stock        int      `json:"stock" validate:"gte=0"`
	Weight       float64  `json:"weight" validate:"gte=0"`
}

// SetCategory assigns both the association and its foreign key so GORM
// persists the reference consistently.
func (p *Product) SetCategory(category Category) {
	p.Category = category
	p.CategoryName = category.Name
}
