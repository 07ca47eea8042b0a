package controllers

import (
	"net/http"
	"strings"

	"nextmeal/services"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	Advisor *services.AdvisorService
}

func NewRecommendationController(as *services.AdvisorService) *RecommendationController {
	return &RecommendationController{Advisor: as}
}

// Recommend serves POST /recommend/?user_id=&mood=&time_of_day=. A model
// failure still answers 200 with the services.Unavailable body.
func (rc *RecommendationController) Recommend(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	mood := strings.TrimSpace(c.Query("mood"))
	timeOfDay := strings.TrimSpace(c.Query("time_of_day"))
	if userID == "" || mood == "" || timeOfDay == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, mood and time_of_day are required"})
		return
	}

	rec, err := rc.Advisor.Recommend(c.Request.Context(), userID, mood, timeOfDay)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
