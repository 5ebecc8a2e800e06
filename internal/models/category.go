package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. Categories are referenced by
// transactions, recurring templates, and budgets through their id only.
type Category struct {
	Base
	OwnerID string       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name    string       `gorm:"not null" json:"name"`
	Type    CategoryType `gorm:"not null" json:"type"`
	Icon    string       `json:"icon,omitempty"`
	Color   string       `json:"color,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}
