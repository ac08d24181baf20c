package models

import "time"

// User represents an account of the catalog API
type User struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	FirstName  string     `gorm:"size:255;not null" json:"first_name"`
	MiddleName *string    `gorm:"size:255" json:"middle_name"`
	LastName   string     `gorm:"size:255;not null" json:"last_name"`
	Username   string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email      string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string     `gorm:"not null" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `gorm:"index" json:"deleted_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// State reports whether the user is active or soft-deleted
func (u *User) State() RecordState {
	return stateOf(u.DeletedAt)
}
