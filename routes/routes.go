package routes

import (
	"time"

	"nextmeal/controllers"
	"nextmeal/middlewares"
	"nextmeal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	DB          *gorm.DB
	JWTSecret   []byte
	CORSOrigins []string

	Users   *services.UserService
	Meals   *services.MealService
	Plans   *services.PlanService
	Advisor *services.AdvisorService
	Hub     *services.RealtimeHub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	users := controllers.NewUserController(d.Users)
	meals := controllers.NewMealController(d.Meals)
	plans := controllers.NewPlanController(d.Plans)
	recs := controllers.NewRecommendationController(d.Advisor)
	auth := controllers.NewAuthController(services.NewAuthService(d.Users, d.JWTSecret))
	rt := controllers.NewRealtimeController(d.Hub, d.CORSOrigins)

	r.GET("/", controllers.Root)
	r.GET("/health", controllers.Health(d.DB))

	r.POST("/auth/login", auth.Login)

	r.POST("/users/", users.Create)
	r.GET("/users/", users.FindByEmail)
	r.GET("/users/:user_id", users.Get)
	r.POST("/users/:user_id/meals/", meals.Create)
	r.POST("/users/:user_id/plan/", plans.Create)
	r.GET("/users/:user_id/plan/", plans.List)
	r.PATCH("/users/:user_id/plan/:plan_id", plans.UpdateStatus)

	r.GET("/meals/", meals.List)

	r.POST("/recommend/", recs.Recommend)

	// Protected routes
	me := r.Group("/me")
	me.Use(middlewares.AuthMiddleware(d.JWTSecret))
	{
		me.GET("", users.Me)
		me.GET("/plan/ws", rt.PlanEventsWS)
	}

	return r
}
