package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"nextmeal/config"
	"nextmeal/models"
	"nextmeal/services"

	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB("sqlite:" + filepath.Join(t.TempDir(), "nextmeal.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db    *gorm.DB
	users *services.UserService
	meals *services.MealService
	plans *services.PlanService
	ctx   context.Context
}

func newFixture(t *testing.T, images services.ImageStore, events services.EventPublisher) *fixture {
	t.Helper()
	db := newTestDB(t)
	users := services.NewUserService(db)
	meals := services.NewMealService(db, users, images)
	return &fixture{
		db:    db,
		users: users,
		meals: meals,
		plans: services.NewPlanService(db, users, meals, events),
		ctx:   context.Background(),
	}
}

func (f *fixture) mustUser(t *testing.T, id, email string) *models.User {
	t.Helper()
	u, err := f.users.Create(f.ctx, services.RegisterInput{ID: id, Email: email, FullName: id})
	if err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func mealInput(name string) services.MealInput {
	return services.MealInput{
		Name:               name,
		Category:           "Veg",
		SuitableTime:       "Dinner",
		MoodTag:            "Comfort Craving",
		RegionalTag:        "North Indian",
		CourseType:         "Main Course",
		Calories:           400,
		Ingredients:        "Lentils, Butter",
		RecipeInstructions: "Slow cook.",
	}
}

func (f *fixture) mustMeals(t *testing.T, ownerID string, n int) []models.Meal {
	t.Helper()
	out := make([]models.Meal, 0, n)
	for i := 0; i < n; i++ {
		m, err := f.meals.Create(f.ctx, ownerID, mealInput(fmt.Sprintf("Meal %02d", i)))
		if err != nil {
			t.Fatalf("create meal %d: %v", i, err)
		}
		out = append(out, *m)
	}
	return out
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 12, 0, 0, 0, time.UTC)
}

// fakeChat replays canned completions; the last reply repeats.
type fakeChat struct {
	mu      sync.Mutex
	replies []string
	err     error
	onCall  func()
	reqs    []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.onCall != nil {
		f.onCall()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	i := len(f.reqs) - 1
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.replies[i]},
		}},
	}, nil
}

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type fakeImages struct {
	prefix string
}

func (f *fakeImages) Upload(ctx context.Context, dataURL, prefix string) (string, error) {
	f.prefix = prefix
	return "https://cdn.example.com/" + prefix + ".png", nil
}

type recordedEvent struct {
	userID  string
	payload map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(userID string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := payload.(map[string]any)
	p.events = append(p.events, recordedEvent{userID: userID, payload: m})
}
