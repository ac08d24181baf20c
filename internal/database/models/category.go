package models

import "time"

// Category groups products in the catalog
type Category struct {
	ID                  uint       `gorm:"primarykey" json:"id"`
	CategoryName        string     `gorm:"size:100;not null;uniqueIndex:idx_categories_name_active,where:deleted_at IS NULL" json:"category_name"`
	CategoryDescription *string    `gorm:"type:text" json:"category_description"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `gorm:"index" json:"deleted_at"`
}

// TableName overrides the table name
func (Category) TableName() string {
	return "categories"
}

// State reports whether the category is active or soft-deleted
func (c *Category) State() RecordState {
	return stateOf(c.DeletedAt)
}
