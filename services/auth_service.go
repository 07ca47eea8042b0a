package services

import (
	"context"
	"fmt"

	"nextmeal/models"
	"nextmeal/utils"
)

type AuthService struct {
	users  *UserService
	secret []byte
}

func NewAuthService(users *UserService, secret []byte) *AuthService {
	return &AuthService{users: users, secret: secret}
}

// Login checks the password and issues a signed token for the user.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := a.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateJWT(a.secret, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("could not generate token: %w", err)
	}
	return token, user, nil
}
