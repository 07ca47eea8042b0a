package services

import (
	"context"
	"fmt"
)

// MenuSize caps how many catalog meals are sent to the model.
const MenuSize = 50

// AdvisorService runs the recommendation request flow for a user.
type AdvisorService struct {
	users *UserService
	meals *MealService
	recs  *RecommendationService
}

func NewAdvisorService(users *UserService, meals *MealService, recs *RecommendationService) *AdvisorService {
	return &AdvisorService{users: users, meals: meals, recs: recs}
}

// Recommend registers unknown users on the fly, then asks the recommender
// to choose from the catalog. Only storage failures are returned as errors.
func (a *AdvisorService) Recommend(ctx context.Context, userID, mood, timeOfDay string) (Recommendation, error) {
	user, err := a.users.EnsureUser(ctx, userID)
	if err != nil {
		return Recommendation{}, err
	}

	menu, err := a.meals.Menu(ctx, MenuSize)
	if err != nil {
		return Recommendation{}, err
	}

	userContext := BuildUserContext(user.DietaryPreferences, user.RegionalPreferences, mood, timeOfDay)
	return a.recs.Recommend(ctx, userContext, menu), nil
}

func BuildUserContext(diet, region, mood, timeOfDay string) string {
	if diet == "" {
		diet = "Any"
	}
	if region == "" {
		region = "Any"
	}
	return fmt.Sprintf("Diet Preference: %s\nRegional Preference: %s\nCurrent Request: Time is %s, Mood is %s.",
		diet, region, timeOfDay, mood)
}
