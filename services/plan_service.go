package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"nextmeal/models"

	"gorm.io/gorm"
)

// EventPublisher fans plan changes out to a user's live connections.
type EventPublisher interface {
	Publish(userID string, payload any)
}

type PlanService struct {
	db     *gorm.DB
	users  *UserService
	meals  *MealService
	events EventPublisher
}

func NewPlanService(db *gorm.DB, users *UserService, meals *MealService, events EventPublisher) *PlanService {
	return &PlanService{db: db, users: users, meals: meals, events: events}
}

type PlanInput struct {
	MealID   uint      `json:"meal_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	MealType string    `json:"meal_type" binding:"required"`
}

// allowed status moves; eaten and skipped are terminal
var planTransitions = map[string][]string{
	models.PlanStatusPlanned: {models.PlanStatusCooked, models.PlanStatusEaten, models.PlanStatusSkipped},
	models.PlanStatusCooked:  {models.PlanStatusEaten, models.PlanStatusSkipped},
}

func (s *PlanService) Create(ctx context.Context, userID string, in PlanInput) (*models.MealPlan, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.meals.Get(ctx, in.MealID); err != nil {
		return nil, err
	}

	plan := &models.MealPlan{
		UserID:   userID,
		MealID:   in.MealID,
		Date:     in.Date.UTC(),
		MealType: in.MealType,
		Status:   models.PlanStatusPlanned,
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}

	created, err := s.get(ctx, userID, plan.ID)
	if err != nil {
		return nil, err
	}
	s.publish("plan.created", created)
	return created, nil
}

// List returns a user's entries by ascending date. Zero from/to leave that
// side of the window open; to is exclusive.
func (s *PlanService) List(ctx context.Context, userID string, from, to time.Time) ([]models.MealPlan, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Preload("Meal").
		Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to.UTC())
	}

	plans := []models.MealPlan{}
	err := q.Order("date ASC").Order("id ASC").Find(&plans).Error
	return plans, err
}

func (s *PlanService) UpdateStatus(ctx context.Context, userID string, planID uint, status string) (*models.MealPlan, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	plan, err := s.get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == status {
		return plan, nil
	}
	if !canTransition(plan.Status, status) {
		return nil, ErrInvalidTransition
	}

	// guard on the old status so two concurrent moves cannot both win
	res := s.db.WithContext(ctx).
		Model(&models.MealPlan{}).
		Where("id = ? AND user_id = ? AND status = ?", planID, userID, plan.Status).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	updated, err := s.get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	s.publish("plan.updated", updated)
	return updated, nil
}

func (s *PlanService) get(ctx context.Context, userID string, planID uint) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Meal").
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (s *PlanService) publish(kind string, plan *models.MealPlan) {
	if s.events == nil {
		return
	}
	s.events.Publish(plan.UserID, map[string]any{
		"kind": kind,
		"plan": plan,
	})
}

func validStatus(status string) bool {
	switch status {
	case models.PlanStatusPlanned, models.PlanStatusCooked, models.PlanStatusEaten, models.PlanStatusSkipped:
		return true
	}
	return false
}

func canTransition(from, to string) bool {
	for _, next := range planTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
