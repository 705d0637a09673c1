package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/iliyamo/eventdeck/internal/model"
)

// MemoryUserRepo is an in-memory credential store with the same error
// contract as UserRepo. It backs handler and service tests.
type MemoryUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  map[string]model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: map[string]model.User{}}
}

func (r *MemoryUserRepo) FindByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	u.Tags = slices.Clone(u.Tags)
	u.Likes = slices.Clone(u.Likes)
	return u, nil
}

func (r *MemoryUserRepo) Insert(_ context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return model.User{}, ErrUsernameExists
	}
	r.nextID++
	u.ID = r.nextID
	u.Tags = stringsOrEmpty(u.Tags)
	u.Likes = idsOrEmpty(u.Likes)
	u.CreatedAt = time.Now().UTC()
	r.users[u.Username] = u
	return u, nil
}

func (r *MemoryUserRepo) UpdateRole(_ context.Context, username string, role model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	r.users[username] = u
	return nil
}

func (r *MemoryUserRepo) SetLike(_ context.Context, username string, eventID int64, liked bool) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	idx := slices.Index(u.Likes, eventID)
	switch {
	case liked && idx < 0:
		u.Likes = append(u.Likes, eventID)
	case !liked && idx >= 0:
		u.Likes = slices.Delete(u.Likes, idx, idx+1)
	}
	u.Likes = idsOrEmpty(u.Likes)
	r.users[username] = u
	return slices.Clone(u.Likes), nil
}

// MemoryEventRepo is the in-memory counterpart of EventRepo.
type MemoryEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]model.Event
}

func NewMemoryEventRepo() *MemoryEventRepo {
	return &MemoryEventRepo{events: map[int64]model.Event{}}
}

func (r *MemoryEventRepo) Create(_ context.Context, e model.Event) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	e.Tags = stringsOrEmpty(e.Tags)
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	r.events[e.ID] = e
	return e, nil
}

func (r *MemoryEventRepo) GetByID(_ context.Context, id int64) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	return e, nil
}

func (r *MemoryEventRepo) Update(_ context.Context, e model.Event) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.events[e.ID]
	if !ok {
		return model.Event{}, ErrEventNotFound
	}
	e.AuthorUsername = old.AuthorUsername
	e.CreatedAt = old.CreatedAt
	e.Tags = stringsOrEmpty(e.Tags)
	e.UpdatedAt = time.Now().UTC()
	r.events[e.ID] = e
	return e, nil
}

func (r *MemoryEventRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}
