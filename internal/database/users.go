package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"fileport/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserStore is the only writer of the user table and its snapshot. Each
// mutation and the snapshot write that follows it run under one lock, so
// concurrent uploads cannot lose updates or interleave snapshot writes.
type UserStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	snapshot Snapshotter
}

func NewUserStore(snapshot Snapshotter) *UserStore {
	return &UserStore{
		users:    make(map[string]*models.User),
		snapshot: snapshot,
	}
}

// LoadAll replaces the in-memory table with the persisted snapshot.
func (s *UserStore) LoadAll(ctx context.Context) error {
	users, err := s.snapshot.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*models.User, len(users))
	for _, u := range users {
		if u == nil || u.AccessToken == "" {
			continue
		}
		cp := *u
		s.users[u.AccessToken] = &cp
	}
	return nil
}

// Get returns a copy of the user stored under token, or nil.
func (s *UserStore) Get(token string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[token]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// FindByUserID returns a copy of the most recent login of userID, or nil.
func (s *UserStore) FindByUserID(userID string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.User
	for _, u := range s.users {
		if u.UserID != userID {
			continue
		}
		if latest == nil || u.LoginTime.After(latest.LoginTime) {
			latest = u
		}
	}
	if latest == nil {
		return nil
	}
	cp := *latest
	return &cp
}

func (s *UserStore) Put(ctx context.Context, user *models.User) error {
	if user == nil || user.AccessToken == "" {
		return errors.New("user without access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.users[user.AccessToken]
	cp := *user
	s.users[user.AccessToken] = &cp

	if err := s.persistLocked(ctx); err != nil {
		if existed {
			s.users[user.AccessToken] = prev
		} else {
			delete(s.users, user.AccessToken)
		}
		return err
	}
	return nil
}

// IncrementUsed adds delta to the user's recorded usage. The counter never
// drops below zero. Usage belongs to the user, so every login record sharing
// the user ID is updated together.
func (s *UserStore) IncrementUsed(ctx context.Context, token string, delta int64) (*models.User, error) {
	return s.update(ctx, token, func(used int64) int64 {
		return max(used+delta, 0)
	})
}

// SetUsed overwrites the recorded usage of every login record of the user
// behind token.
func (s *UserStore) SetUsed(ctx context.Context, token string, used int64) (*models.User, error) {
	return s.update(ctx, token, func(int64) int64 {
		return max(used, 0)
	})
}

func (s *UserStore) update(ctx context.Context, token string, next func(used int64) int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[token]
	if !ok {
		return nil, fmt.Errorf("token %q: %w", token, ErrUserNotFound)
	}
	used := next(current.UsedStorage)

	prev := make(map[string]*models.User)
	for tok, u := range s.users {
		if tok != token && (current.UserID == "" || u.UserID != current.UserID) {
			continue
		}
		prev[tok] = u
		cp := *u
		cp.UsedStorage = used
		s.users[tok] = &cp
	}

	if err := s.persistLocked(ctx); err != nil {
		for tok, u := range prev {
			s.users[tok] = u
		}
		return nil, err
	}

	cp := *s.users[token]
	return &cp, nil
}

// All returns copies of every user ordered by login time.
func (s *UserStore) All() []*models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *UserStore) sortedLocked() []*models.User {
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].LoginTime.Equal(users[j].LoginTime) {
			return users[i].LoginTime.Before(users[j].LoginTime)
		}
		return users[i].AccessToken < users[j].AccessToken
	})
	return users
}

func (s *UserStore) persistLocked(ctx context.Context) error {
	if err := s.snapshot.Save(ctx, s.sortedLocked()); err != nil {
		return fmt.Errorf("failed to persist user snapshot: %w", err)
	}
	return nil
}
