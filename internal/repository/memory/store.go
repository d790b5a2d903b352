// Package memory holds process-local repositories used by the "memory"
// storage driver and by tests that want real slicing behaviour.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"recordpager/internal/domain"
)

// Store implements the user, collection and record repositories over maps guarded by one RWMutex.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*domain.User
	collections map[string]*domain.Collection
	records     map[string][]*domain.Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*domain.User),
		collections: make(map[string]*domain.Collection),
		records:     make(map[string][]*domain.Record),
	}
}

// Users returns the store as a domain.UserRepository.
func (s *Store) Users() domain.UserRepository { return userRepo{s} }

// Collections returns the store as a domain.CollectionRepository.
func (s *Store) Collections() domain.CollectionRepository { return collectionRepo{s} }

// Records returns the store as a domain.RecordRepository.
func (s *Store) Records() domain.RecordRepository { return recordRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type collectionRepo struct{ s *Store }

func (r collectionRepo) Create(_ context.Context, c *domain.Collection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = uuid.NewString()
	cp := *c
	r.s.collections[c.ID] = &cp
	return nil
}

func (r collectionRepo) GetByID(_ context.Context, id string) (*domain.Collection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r collectionRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.ownedBy(ownerID)), nil
}

func (r collectionRepo) ListRangeByOwner(_ context.Context, ownerID string, begin, end int) ([]*domain.Collection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	owned := r.s.ownedBy(ownerID)
	lo, hi := clampRange(begin, end, len(owned))
	out := make([]*domain.Collection, 0, hi-lo)
	for _, c := range owned[lo:hi] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// ownedBy returns the owner's collections newest first. Caller holds mu.
func (s *Store) ownedBy(ownerID string) []*domain.Collection {
	var owned []*domain.Collection
	for _, c := range s.collections {
		if c.OwnerID == ownerID {
			owned = append(owned, c)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].ID < owned[j].ID
	})
	return owned
}

type recordRepo struct{ s *Store }

func (r recordRepo) Append(_ context.Context, collectionID string, records []*domain.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.collections[collectionID]; !ok {
		return domain.ErrNotFound
	}
	next := len(r.s.records[collectionID])
	for i, rec := range records {
		rec.ID = uuid.NewString()
		rec.CollectionID = collectionID
		rec.Position = next + i
		cp := *rec
		r.s.records[collectionID] = append(r.s.records[collectionID], &cp)
	}
	return nil
}

func (r recordRepo) Count(_ context.Context, collectionID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.records[collectionID]), nil
}

func (r recordRepo) ListRange(_ context.Context, collectionID string, begin, end int) ([]*domain.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := r.s.records[collectionID]
	lo, hi := clampRange(begin, end, len(all))
	out := make([]*domain.Record, 0, hi-lo)
	for _, rec := range all[lo:hi] {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

// clampRange maps an inclusive [begin, end] onto half-open slice bounds within [0, size].
func clampRange(begin, end, size int) (lo, hi int) {
	offset, limit, ok := domain.RangeLimit(begin, end)
	if !ok {
		return 0, 0
	}
	lo = min(offset, size)
	hi = min(offset+limit, size)
	return lo, hi
}
