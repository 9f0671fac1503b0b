package chat

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemorySessionStore keeps sessions in process memory. Sessions are copied on
// the way in and out, so callers never share a visit with the store.
type MemorySessionStore struct {
	sessions *cache.Cache
}

// NewMemorySessionStore creates a store; ttl <= 0 keeps sessions until removed.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemorySessionStore{sessions: cache.New(ttl, 10*time.Minute)}
}

func (s *MemorySessionStore) IsActive(_ context.Context, userID string) (bool, error) {
	_, ok := s.sessions.Get(userID)
	return ok, nil
}

func (s *MemorySessionStore) Get(_ context.Context, userID string) (*Session, error) {
	v, ok := s.sessions.Get(userID)
	if !ok {
		return nil, nil
	}
	return v.(*Session).Clone(), nil
}

func (s *MemorySessionStore) Put(_ context.Context, session *Session) error {
	s.sessions.SetDefault(session.UserID, session.Clone())
	return nil
}

func (s *MemorySessionStore) Remove(_ context.Context, userID string) error {
	s.sessions.Delete(userID)
	return nil
}

// SessionRepository is the database side of MongoSessionStore.
type SessionRepository interface {
	SaveSession(ctx context.Context, session *Session) error
	LoadSession(ctx context.Context, userID string) (*Session, error)
	DeleteSession(ctx context.Context, userID string) error
}

// MongoSessionStore adapts the database repository to SessionStore.
type MongoSessionStore struct {
	repo SessionRepository
}

func NewMongoSessionStore(repo SessionRepository) *MongoSessionStore {
	return &MongoSessionStore{repo: repo}
}

func (s *MongoSessionStore) IsActive(ctx context.Context, userID string) (bool, error) {
	session, err := s.repo.LoadSession(ctx, userID)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

func (s *MongoSessionStore) Get(ctx context.Context, userID string) (*Session, error) {
	return s.repo.LoadSession(ctx, userID)
}

func (s *MongoSessionStore) Put(ctx context.Context, session *Session) error {
	return s.repo.SaveSession(ctx, session)
}

func (s *MongoSessionStore) Remove(ctx context.Context, userID string) error {
	return s.repo.DeleteSession(ctx, userID)
}
