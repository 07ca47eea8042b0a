package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultRecommendationModel = openai.GPT4oMini
	recommendationTemperature  = 0.7
)

const chefSystemPrompt = `You are the "Chef AI".
1. Analyze the User Profile and the Menu.
2. Pick the SINGLE best meal from the Menu.
3. You must return JSON in this format:
   {
     "recommended_meal_name": "Exact Name From Menu",
     "reason": "One short sentence explaining why."
   }`

// Recommendation is both the success payload and the unavailable sentinel.
type Recommendation struct {
	RecommendedMealName string `json:"recommended_meal_name"`
	Reason              string `json:"reason"`
}

// Unavailable is returned in place of any failed recommendation.
var Unavailable = Recommendation{
	RecommendedMealName: "Error",
	Reason:              "The AI is currently unavailable. Please try again.",
}

var errInvalidOutput = errors.New("invalid model output")

// ChatCompleter is implemented by *openai.Client.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type RecommendationService struct {
	client   ChatCompleter
	model    string
	cache    RecommendationCache // optional
	cacheTTL time.Duration
}

func NewRecommendationService(client ChatCompleter, model string) *RecommendationService {
	if model == "" {
		model = DefaultRecommendationModel
	}
	return &RecommendationService{client: client, model: model}
}

// WithCache enables caching of successful recommendations.
func (r *RecommendationService) WithCache(cache RecommendationCache, ttl time.Duration) *RecommendationService {
	r.cache = cache
	r.cacheTTL = ttl
	return r
}

// Recommend asks the model to pick one meal from menu for userContext. It
// never fails: errors are logged and the Unavailable sentinel is returned.
// A response that is not valid JSON, or names a meal not on the menu, is
// retried once.
func (r *RecommendationService) Recommend(ctx context.Context, userContext string, menu []MenuItem) Recommendation {
	if len(menu) == 0 {
		log.Printf("AI Error: empty menu, nothing to recommend")
		return Unavailable
	}

	menuText, err := json.MarshalIndent(menu, "", "  ")
	if err != nil {
		log.Printf("AI Error: encode menu: %v", err)
		return Unavailable
	}

	key := cacheKey(userContext, menuText)
	if r.cache != nil {
		if rec, ok, err := r.cache.Get(ctx, key); err != nil {
			log.Printf("recommendation cache get: %v", err)
		} else if ok {
			return rec
		}
	}

	userPrompt := fmt.Sprintf("User Profile: %s\n\nMenu:\n%s", strings.TrimSpace(userContext), menuText)

	var rec Recommendation
	for attempt := 1; attempt <= 2; attempt++ {
		rec, err = r.ask(ctx, userPrompt, menu)
		if err == nil || !errors.Is(err, errInvalidOutput) {
			break
		}
		log.Printf("AI Error: attempt %d: %v", attempt, err)
	}
	if err != nil {
		log.Printf("AI Error: %v", err)
		return Unavailable
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, rec, r.cacheTTL); err != nil {
			log.Printf("recommendation cache set: %v", err)
		}
	}
	return rec
}

func (r *RecommendationService) ask(ctx context.Context, userPrompt string, menu []MenuItem) (Recommendation, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chefSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: recommendationTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Recommendation{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Recommendation{}, fmt.Errorf("%w: no choices", errInvalidOutput)
	}
	return parseRecommendation(resp.Choices[0].Message.Content, menu)
}

// parseRecommendation treats the model output as untrusted: both fields must
// be present and the name must be on the menu. A case or spacing mismatch is
// resolved to the menu's spelling.
func parseRecommendation(content string, menu []MenuItem) (Recommendation, error) {
	var rec Recommendation
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		preview := content
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return Recommendation{}, fmt.Errorf("%w: %v | body: %s", errInvalidOutput, err, preview)
	}
	rec.RecommendedMealName = strings.TrimSpace(rec.RecommendedMealName)
	rec.Reason = strings.TrimSpace(rec.Reason)
	if rec.RecommendedMealName == "" || rec.Reason == "" {
		return Recommendation{}, fmt.Errorf("%w: missing fields", errInvalidOutput)
	}

	name, ok := matchMenu(rec.RecommendedMealName, menu)
	if !ok {
		return Recommendation{}, fmt.Errorf("%w: %q is not on the menu", errInvalidOutput, rec.RecommendedMealName)
	}
	rec.RecommendedMealName = name
	return rec, nil
}

func matchMenu(name string, menu []MenuItem) (string, bool) {
	for _, m := range menu {
		if m.Name == name {
			return m.Name, true
		}
	}
	norm := normalizeName(name)
	for _, m := range menu {
		if normalizeName(m.Name) == norm {
			return m.Name, true
		}
	}
	return "", false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func cacheKey(userContext string, menuText []byte) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(userContext)))
	h.Write([]byte{0})
	h.Write(menuText)
	return "recommend:" + hex.EncodeToString(h.Sum(nil))
}
