package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/storepulse/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo user.Repository
	tokens   *TokenIssuer
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, tokens *TokenIssuer) Service {
	return &service{userRepo: userRepo, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.StoreID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, StoreID: u.StoreID}, nil
}

func (s *service) CurrentUser(ctx context.Context) (*user.User, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.userRepo.GetUserByID(ctx, claims.UserID)
}
