package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"fileport/internal/models"
	"fileport/internal/quota"
)

// UserStore is the subset of the user table the login flow needs.
type UserStore interface {
	quota.CounterStore
	FindByUserID(userID string) *models.User
	Put(ctx context.Context, user *models.User) error
}

type IdentityProvider interface {
	AuthorizeURL() string
	FetchIdentity(ctx context.Context, code string) (*Identity, error)
}

// Service drives the login flow: an anonymous visitor is redirected to
// AuthorizeURL, comes back with a code, and HandleCallback either returns an
// authenticated user or an error wrapping ErrAuthFailed.
type Service struct {
	provider         IdentityProvider
	users            UserStore
	accountant       *quota.Accountant
	defaultQuota     int64
	reconcileOnLogin bool
	now              func() time.Time
}

type ServiceConfig struct {
	DefaultQuota     int64
	ReconcileOnLogin bool
}

func NewService(provider IdentityProvider, users UserStore, accountant *quota.Accountant, cfg ServiceConfig) *Service {
	return &Service{
		provider:         provider,
		users:            users,
		accountant:       accountant,
		defaultQuota:     cfg.DefaultQuota,
		reconcileOnLogin: cfg.ReconcileOnLogin,
		now:              time.Now,
	}
}

func (s *Service) AuthorizeURL() string {
	return s.provider.AuthorizeURL()
}

// HandleCallback exchanges the one-time code for an identity and records the
// user under that code. A user ID seen before keeps its quota limit and
// recorded usage; a new one starts with the default quota and zero usage.
func (s *Service) HandleCallback(ctx context.Context, code string) (*models.User, error) {
	identity, err := s.provider.FetchIdentity(ctx, code)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:       identity.UserID,
		Username:     identity.Nickname,
		AccessToken:  code,
		LoginTime:    s.now(),
		StorageLimit: s.defaultQuota,
	}
	if prev := s.users.FindByUserID(identity.UserID); prev != nil {
		user.StorageLimit = prev.StorageLimit
		user.UsedStorage = prev.UsedStorage
	}

	if err := s.users.Put(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user %s: %w", user.UserID, err)
	}

	if s.reconcileOnLogin && s.accountant != nil {
		reconciled, err := s.accountant.Reconcile(ctx, s.users, user)
		if err != nil {
			log.Printf("WARN: Failed to reconcile storage for user %s: %v", user.UserID, err)
		} else {
			user = reconciled
		}
	}

	return user, nil
}
