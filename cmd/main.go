package main

import (
	"context"
	"log"

	"nextmeal/config"
	"nextmeal/routes"
	"nextmeal/services"
	"nextmeal/utils"

	openai "github.com/sashabaranov/go-openai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := config.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()

	var images services.ImageStore
	if cfg.S3Bucket != "" {
		store, err := utils.NewS3ImageStoreFromEnv(ctx, cfg.S3Region, cfg.S3Bucket, cfg.CloudFrontURL)
		if err != nil {
			log.Fatalf("%v", err)
		}
		images = store
	} else {
		log.Println("S3_BUCKET not set, meal image uploads disabled")
	}

	aiCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		aiCfg.BaseURL = cfg.OpenAIBaseURL
	}
	recs := services.NewRecommendationService(openai.NewClientWithConfig(aiCfg), cfg.OpenAIModel)
	if cfg.RedisURL != "" {
		cache, err := services.NewRedisRecommendationCacheFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer cache.Close()
		recs.WithCache(cache, cfg.CacheTTL)
	}

	hub := services.NewRealtimeHub()
	users := services.NewUserService(db)
	meals := services.NewMealService(db, users, images)
	plans := services.NewPlanService(db, users, meals, hub)

	r := routes.SetupRouter(routes.Deps{
		DB:          db,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Users:       users,
		Meals:       meals,
		Plans:       plans,
		Advisor:     services.NewAdvisorService(users, meals, recs),
		Hub:         hub,
	})

	log.Printf("Starting server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
