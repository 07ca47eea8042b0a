package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nextmeal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
)

var testMenu = []services.MenuItem{
	{Name: "Paneer Butter Masala", Category: "Veg", Mood: "Comfort Craving", Time: "Dinner", Ingredients: "Paneer, Butter"},
	{Name: "Idli Sambar", Category: "Veg", Mood: "Healthy & Guilt Free", Time: "Breakfast", Ingredients: "Rice cakes"},
}

func TestRecommendReturnsSentinelOnFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("connection refused")}
	svc := services.NewRecommendationService(chat, "")

	got := svc.Recommend(context.Background(), "Mood is tired", testMenu)
	if got != services.Unavailable {
		t.Fatalf("expected sentinel, got %+v", got)
	}
	if got.RecommendedMealName != "Error" || got.Reason != "The AI is currently unavailable. Please try again." {
		t.Fatalf("sentinel changed: %+v", got)
	}
	if chat.calls() != 1 {
		t.Fatalf("transport errors must not be retried, got %d calls", chat.calls())
	}
}

func TestRecommendPicksMenuItem(t *testing.T) {
	chat := &fakeChat{replies: []string{`{"recommended_meal_name":"Idli Sambar","reason":"Light and healthy."}`}}
	svc := services.NewRecommendationService(chat, "")

	got := svc.Recommend(context.Background(), "Time is Breakfast", testMenu)
	if got.RecommendedMealName != "Idli Sambar" || got.Reason != "Light and healthy." {
		t.Fatalf("unexpected recommendation %+v", got)
	}

	req := chat.reqs[0]
	if req.Model != services.DefaultRecommendationModel {
		t.Fatalf("unexpected model %q", req.Model)
	}
	if req.Temperature != 0.7 {
		t.Fatalf("unexpected temperature %v", req.Temperature)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatalf("expected json_object response format")
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("unexpected messages %+v", req.Messages)
	}
	user := req.Messages[1].Content
	if !strings.Contains(user, "User Profile: Time is Breakfast") || !strings.Contains(user, `"name": "Paneer Butter Masala"`) {
		t.Fatalf("user prompt missing profile or menu:\n%s", user)
	}
}

func TestRecommendCanonicalizesName(t *testing.T) {
	chat := &fakeChat{replies: []string{`{"recommended_meal_name":"  idli   SAMBAR ","reason":"Light."}`}}
	svc := services.NewRecommendationService(chat, "custom-model")

	got := svc.Recommend(context.Background(), "ctx", testMenu)
	if got.RecommendedMealName != "Idli Sambar" {
		t.Fatalf("expected canonical menu name, got %q", got.RecommendedMealName)
	}
	if chat.reqs[0].Model != "custom-model" {
		t.Fatalf("expected custom model, got %q", chat.reqs[0].Model)
	}
}

func TestRecommendRetriesInvalidOutputOnce(t *testing.T) {
	chat := &fakeChat{replies: []string{
		`{"recommended_meal_name":"Pizza","reason":"Everyone likes pizza."}`,
		`{"recommended_meal_name":"Paneer Butter Masala","reason":"Comforting."}`,
	}}
	svc := services.NewRecommendationService(chat, "")

	got := svc.Recommend(context.Background(), "ctx", testMenu)
	if got.RecommendedMealName != "Paneer Butter Masala" {
		t.Fatalf("expected retry to succeed, got %+v", got)
	}
	if chat.calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", chat.calls())
	}
}

func TestRecommendGivesUpAfterSecondInvalidOutput(t *testing.T) {
	for _, reply := range []string{
		`not json`,
		`{"recommended_meal_name":"Pizza","reason":"Hallucinated."}`,
		`{"recommended_meal_name":"Idli Sambar"}`,
	} {
		chat := &fakeChat{replies: []string{reply}}
		svc := services.NewRecommendationService(chat, "")
		if got := svc.Recommend(context.Background(), "ctx", testMenu); got != services.Unavailable {
			t.Fatalf("%s: expected sentinel, got %+v", reply, got)
		}
		if chat.calls() != 2 {
			t.Fatalf("%s: expected 2 calls, got %d", reply, chat.calls())
		}
	}
}

func TestRecommendEmptyMenu(t *testing.T) {
	chat := &fakeChat{replies: []string{`{}`}}
	svc := services.NewRecommendationService(chat, "")
	if got := svc.Recommend(context.Background(), "ctx", nil); got != services.Unavailable {
		t.Fatalf("expected sentinel, got %+v", got)
	}
	if chat.calls() != 0 {
		t.Fatalf("expected no model call for an empty menu")
	}
}

func TestRecommendUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := services.NewRedisRecommendationCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	chat := &fakeChat{replies: []string{`{"recommended_meal_name":"Idli Sambar","reason":"Light."}`}}
	svc := services.NewRecommendationService(chat, "").WithCache(cache, time.Minute)

	first := svc.Recommend(context.Background(), "ctx", testMenu)
	second := svc.Recommend(context.Background(), "ctx", testMenu)
	if first != second || first.RecommendedMealName != "Idli Sambar" {
		t.Fatalf("unexpected results %+v %+v", first, second)
	}
	if chat.calls() != 1 {
		t.Fatalf("expected cached second call, got %d model calls", chat.calls())
	}

	svc.Recommend(context.Background(), "different ctx", testMenu)
	if chat.calls() != 2 {
		t.Fatalf("expected a new context to miss the cache")
	}

	mr.FastForward(2 * time.Minute)
	svc.Recommend(context.Background(), "ctx", testMenu)
	if chat.calls() != 3 {
		t.Fatalf("expected expired entry to miss the cache")
	}
}

func TestRecommendDoesNotCacheSentinel(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := services.NewRedisRecommendationCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	chat := &fakeChat{err: errors.New("quota exceeded")}
	svc := services.NewRecommendationService(chat, "").WithCache(cache, time.Minute)
	svc.Recommend(context.Background(), "ctx", testMenu)
	svc.Recommend(context.Background(), "ctx", testMenu)
	if chat.calls() != 2 {
		t.Fatalf("expected failures to bypass the cache, got %d calls", chat.calls())
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("expected empty cache, got %v", keys)
	}
}
