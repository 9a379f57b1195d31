package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/georgemunganga/storepulse/internal/modules/shopify"
	"github.com/georgemunganga/storepulse/internal/security"
)

// Service defines the store registry business logic.
type Service interface {
	// Get returns a store by id.
	Get(ctx context.Context, id int64) (*Store, error)

	// Resolve finds the store for a shop domain, onboarding it with the
	// placeholder credential when it has never been seen.
	Resolve(ctx context.Context, domain string) (*Store, error)

	// SaveCredential seals and stores a store's Admin API token.
	SaveCredential(ctx context.Context, id int64, token string) error

	// Credentialed returns a store together with its opened token.
	Credentialed(ctx context.Context, id int64) (*Credentialed, error)

	// SyncCandidates lists every store that has a usable token.
	SyncCandidates(ctx context.Context) ([]*Credentialed, error)

	// RecordSync stores the outcome of a store's latest sync.
	RecordSync(ctx context.Context, id int64, at time.Time, syncErr error) error
}

type service struct {
	repo   Repository
	sealer security.Sealer
}

// NewService creates a new store service.
func NewService(repo Repository, sealer security.Sealer) Service {
	return &service{repo: repo, sealer: sealer}
}

func (s *service) Get(ctx context.Context, id int64) (*Store, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Resolve(ctx context.Context, domain string) (*Store, error) {
	domain = shopify.NormalizeDomain(domain)
	if !shopify.IsWellFormedDomain(domain) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	st, created, err := s.repo.GetOrCreate(ctx, domain, PlaceholderCredential)
	if err != nil {
		return nil, err
	}
	if created {
		log.Printf("store: onboarded %s as store %d", domain, st.ID)
	}
	return st, nil
}

func (s *service) SaveCredential(ctx context.Context, id int64, token string) error {
	token = strings.TrimSpace(token)
	if token == "" || token == PlaceholderCredential {
		return ErrInvalidCredential
	}
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	if err := s.repo.SetCredential(ctx, id, sealed); err != nil {
		return err
	}
	log.Printf("store: access token saved for store %d", id)
	return nil
}

func (s *service) Credentialed(ctx context.Context, id int64) (*Credentialed, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.HasCredential() {
		return nil, ErrNoCredential
	}
	token, err := s.sealer.Open(*st.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("store %d: %w: %v", id, ErrUnreadableToken, err)
	}
	return &Credentialed{Store: st, AccessToken: token}, nil
}

// SyncCandidates leaves out stores whose token cannot be opened; they are
// treated like stores without a token rather than as failures.
func (s *service) SyncCandidates(ctx context.Context) ([]*Credentialed, error) {
	stores, err := s.repo.ListWithCredential(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores with credentials: %w", err)
	}
	out := make([]*Credentialed, 0, len(stores))
	for _, st := range stores {
		if !st.HasCredential() {
			continue
		}
		token, err := s.sealer.Open(*st.AccessToken)
		if err != nil || strings.TrimSpace(token) == "" {
			log.Printf("store: skipping %s (store %d): unreadable access token", st.ShopDomain, st.ID)
			continue
		}
		out = append(out, &Credentialed{Store: st, AccessToken: token})
	}
	return out, nil
}

func (s *service) RecordSync(ctx context.Context, id int64, at time.Time, syncErr error) error {
	msg := ""
	if syncErr != nil {
		msg = syncErr.Error()
	}
	return s.repo.RecordSync(ctx, id, at, msg)
}
