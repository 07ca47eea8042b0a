package services

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already registered")
	ErrInvalidUserID      = errors.New("user id must be at most 64 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMealNotFound       = errors.New("meal not found")
	ErrPlanNotFound       = errors.New("meal plan entry not found")
	ErrInvalidStatus      = errors.New("unknown meal plan status")
	ErrInvalidTransition  = errors.New("meal plan status transition not allowed")
	ErrInvalidPage        = errors.New("skip must be >= 0 and limit between 1 and 100")
	ErrImagesDisabled     = errors.New("image uploads are not configured")
)
