package models

import "time"

// Category groups blogs
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	Image       *string   `gorm:"type:varchar(500)" json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryWithCount is a category with the number of linked blogs
type CategoryWithCount struct {
	Category
	Posts int64 `json:"posts"`
}
