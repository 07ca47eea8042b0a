package models

import "time"

const (
	PlanStatusPlanned = "planned"
	PlanStatusCooked  = "cooked"
	PlanStatusEaten   = "eaten"
	PlanStatusSkipped = "skipped"
)

// One calendar slot: a meal a user intends to have at Date.
type MealPlan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"user_id"` // FK → users.id
	User      *User     `json:"-"`
	MealID    uint      `gorm:"index;not null" json:"meal_id"` // FK → meals.id
	Meal      *Meal     `json:"meal,omitempty"`
	Date      time.Time `gorm:"index" json:"date"`
	MealType  string    `json:"meal_type"` // "Breakfast"|"Lunch"|"Dinner"
	Status    string    `gorm:"size:16;default:planned" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
