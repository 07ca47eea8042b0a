package services

import (
	"context"
	"fmt"
	"strings"

	"nextmeal/models"

	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 100
)

// ImageStore uploads a base64 data URL and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, dataURL, prefix string) (string, error)
}

type MealService struct {
	db     *gorm.DB
	users  *UserService
	images ImageStore // nil when uploads are not configured
}

func NewMealService(db *gorm.DB, users *UserService, images ImageStore) *MealService {
	return &MealService{db: db, users: users, images: images}
}

type MealInput struct {
	Name               string  `json:"name" binding:"required"`
	Category           string  `json:"category" binding:"required"`
	SuitableTime       string  `json:"suitable_time" binding:"required"`
	MoodTag            string  `json:"mood_tag" binding:"required"`
	RegionalTag        string  `json:"regional_tag" binding:"required"`
	CourseType         string  `json:"course_type" binding:"required"`
	Calories           int     `json:"calories" binding:"gte=0"`
	Ingredients        string  `json:"ingredients" binding:"required"`
	RecipeInstructions string  `json:"recipe_instructions" binding:"required"`
	ImageURL           *string `json:"image_url"`
	ImageBase64        string  `json:"image_base64"` // "data:image/png;base64,…"
}

// MenuItem is the reduced view of a meal the recommender sees.
type MenuItem struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Mood        string `json:"mood"`
	Time        string `json:"time"`
	Ingredients string `json:"ingredients"`
}

// List returns meals ordered by id, so consecutive pages are contiguous.
func (s *MealService) List(ctx context.Context, skip, limit int) ([]models.Meal, error) {
	if skip < 0 || limit < 1 || limit > MaxPageLimit {
		return nil, ErrInvalidPage
	}
	meals := []models.Meal{}
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&meals).Error
	return meals, err
}

func (s *MealService) Get(ctx context.Context, id uint) (*models.Meal, error) {
	var meal models.Meal
	if err := findOne(s.db.WithContext(ctx), &meal, ErrMealNotFound, "id = ?", id); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) Create(ctx context.Context, ownerID string, in MealInput) (*models.Meal, error) {
	if _, err := s.users.Get(ctx, ownerID); err != nil {
		return nil, err
	}

	meal := &models.Meal{
		Name:               strings.TrimSpace(in.Name),
		Category:           in.Category,
		SuitableTime:       in.SuitableTime,
		MoodTag:            in.MoodTag,
		RegionalTag:        in.RegionalTag,
		CourseType:         in.CourseType,
		Calories:           in.Calories,
		Ingredients:        in.Ingredients,
		RecipeInstructions: in.RecipeInstructions,
		ImageURL:           in.ImageURL,
		OwnerID:            &ownerID,
	}

	if in.ImageBase64 != "" {
		if s.images == nil {
			return nil, ErrImagesDisabled
		}
		url, err := s.images.Upload(ctx, in.ImageBase64, "meal-images/"+ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		meal.ImageURL = &url
	}

	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// Menu returns up to limit catalog meals in recommender form.
func (s *MealService) Menu(ctx context.Context, limit int) ([]MenuItem, error) {
	var meals []models.Meal
	if err := s.db.WithContext(ctx).Order("id ASC").Limit(limit).Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("db error fetching meals: %w", err)
	}
	menu := make([]MenuItem, 0, len(meals))
	for _, m := range meals {
		menu = append(menu, MenuItem{
			Name:        m.Name,
			Category:    m.Category,
			Mood:        m.MoodTag,
			Time:        m.SuitableTime,
			Ingredients: m.Ingredients,
		})
	}
	return menu, nil
}
