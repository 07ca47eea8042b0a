package models

import (
	"time"
)

// A catalog entry. System meals have no owner.
type Meal struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"index;not null" json:"name"`
	Category           string    `json:"category"`      // "Veg"|"Non-Veg"
	SuitableTime       string    `json:"suitable_time"` // "Breakfast"|"Lunch"|…
	MoodTag            string    `json:"mood_tag"`
	RegionalTag        string    `json:"regional_tag"`
	CourseType         string    `json:"course_type"`
	Calories           int       `json:"calories"`
	Ingredients        string    `gorm:"type:text" json:"ingredients"`
	RecipeInstructions string    `gorm:"type:text" json:"recipe_instructions"`
	ImageURL           *string   `json:"image_url"`
	OwnerID            *string   `gorm:"type:varchar(64);index" json:"owner_id"` // FK → users.id
	Owner              *User     `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}
