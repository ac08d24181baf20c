package models

import "time"

// Product is a catalog item. It weakly references its Category.
type Product struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	ProductName        string     `gorm:"size:255;not null" json:"product_name"`
	ProductSKU         string     `gorm:"column:product_sku;size:255;not null;uniqueIndex:idx_products_sku_active,where:deleted_at IS NULL" json:"product_sku"`
	CategoryID         uint       `gorm:"not null;index" json:"category_id"`
	ProductDescription *string    `gorm:"type:text" json:"product_description"`
	ProductImage       *string    `gorm:"size:255" json:"product_image"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DeletedAt          *time.Time `gorm:"index" json:"deleted_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// State reports whether the product is active or soft-deleted
func (p *Product) State() RecordState {
	return stateOf(p.DeletedAt)
}

// CategoryName returns the joined category name, or empty when not loaded
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.CategoryName
}
