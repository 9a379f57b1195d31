package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Development fixture used by the setup endpoint.
const (
	TestShopDomain = "dev-coffee-house.myshopify.com"
	TestEmail      = "test@example.com"
	TestPassword   = "password123"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser adds a login bound to storeID.
	RegisterUser(ctx context.Context, email, password string, storeID int64) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// SetupTestUser makes sure the development store and its login exist.
	SetupTestUser(ctx context.Context) (*User, error)
}

// ResolveStoreFunc finds or onboards a store by shop domain and returns its id.
type ResolveStoreFunc func(ctx context.Context, domain string) (int64, error)

type service struct {
	repo         Repository
	resolveStore ResolveStoreFunc
}

// NewService creates a new user service.
func NewService(repo Repository, resolveStore ResolveStoreFunc) Service {
	return &service{repo: repo, resolveStore: resolveStore}
}

func (s *service) RegisterUser(ctx context.Context, email, password string, storeID int64) (*User, error) {
	u, err := s.newUser(email, password, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) SetupTestUser(ctx context.Context) (*User, error) {
	storeID, err := s.resolveStore(ctx, TestShopDomain)
	if err != nil {
		return nil, fmt.Errorf("resolve test store: %w", err)
	}
	u, err := s.newUser(TestEmail, TestPassword, storeID)
	if err != nil {
		return nil, err
	}
	return s.repo.EnsureUser(ctx, u)
}

func (s *service) newUser(email, password string, storeID int64) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	if storeID <= 0 {
		return nil, errors.New("store id is required")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		StoreID:      storeID,
	}, nil
}
