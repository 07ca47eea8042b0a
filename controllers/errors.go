package controllers

import (
	"errors"
	"log"
	"net/http"

	"nextmeal/services"
	"nextmeal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Anything unknown is a
// 500 whose detail stays in the log.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMealNotFound),
		errors.Is(err, services.ErrPlanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidUserID),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPage),
		errors.Is(err, services.ErrImagesDisabled),
		errors.Is(err, utils.ErrInvalidImage):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
