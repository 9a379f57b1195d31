package auth

import (
	"context"
	"errors"

	"github.com/georgemunganga/storepulse/internal/modules/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Session is what a successful login hands back to the dashboard.
type Session struct {
	Token   string `json:"token"`
	StoreID int64  `json:"storeId"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	CurrentUser(ctx context.Context) (*user.User, error)
}
