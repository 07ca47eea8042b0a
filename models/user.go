package models

import (
	"time"
)

// User ids are strings so accounts from an external identity provider keep
// their UUIDs.
type User struct {
	ID                  string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email               string    `gorm:"uniqueIndex;not null" json:"email"`
	Password            string    `json:"-"` // bcrypt hash, empty for lazily created users
	FullName            string    `json:"full_name"`
	DietaryPreferences  string    `json:"dietary_preferences,omitempty"`  // "Vegan, Jain"
	RegionalPreferences string    `json:"regional_preferences,omitempty"` // "North Indian, Gujarati"
	IsActive            bool      `gorm:"default:true" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Meals     []Meal     `gorm:"foreignKey:OwnerID" json:"-"`
	MealPlans []MealPlan `json:"-"`
}
