package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goliatone/go-formflow/pkg/model"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	cleanup := ttl
	if cleanup <= 0 || cleanup > time.Hour {
		cleanup = time.Hour
	}
	return &MemoryStore{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (model.User, error) {
	value, found := s.cache.Get(id)
	if !found {
		return model.User{}, ErrNotFound
	}
	user, ok := value.(model.User)
	if !ok {
		return model.User{}, ErrNotFound
	}
	return user, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, id string, user model.User) error {
	s.cache.Set(id, sanitize(user), gocache.DefaultExpiration)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
