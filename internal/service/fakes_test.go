package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/eventdeck/internal/model"
	"github.com/iliyamo/eventdeck/internal/queue"
	"github.com/iliyamo/eventdeck/internal/repository"
)

const testSecret = "test-secret"

// chanPublisher records published events.
type chanPublisher struct{ ch chan queue.ActivityEvent }

func newChanPublisher() *chanPublisher {
	return &chanPublisher{ch: make(chan queue.ActivityEvent, 16)}
}

func (p *chanPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.ch <- ev
	return nil
}

func (p *chanPublisher) next(t *testing.T) queue.ActivityEvent {
	t.Helper()
	select {
	case ev := <-p.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no activity event published")
		return queue.ActivityEvent{}
	}
}

// brokenStore fails every call.
type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) FindByUsername(context.Context, string) (model.User, error) {
	return model.User{}, errStoreDown
}
func (brokenStore) Insert(context.Context, model.User) (model.User, error) {
	return model.User{}, errStoreDown
}
func (brokenStore) UpdateRole(context.Context, string, model.Role) error { return errStoreDown }
func (brokenStore) SetLike(context.Context, string, int64, bool) ([]int64, error) {
	return nil, errStoreDown
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, sentence string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float64{float64(len(sentence))}, nil
}

func newAuth(t *testing.T, users UserStore, ttl time.Duration) (*AuthService, *chanPublisher) {
	t.Helper()
	pub := newChanPublisher()
	s, err := NewAuthService(users, testSecret, ttl, bcrypt.MinCost, pub, zerolog.Nop())
	require.NoError(t, err)
	return s, pub
}

func seedUser(t *testing.T, s *AuthService, users *repository.MemoryUserRepo, username string, role model.Role) {
	t.Helper()
	_, err := s.Register(context.Background(), RegisterInput{Username: username, Email: username + "@example.com", Password: "pw-" + username})
	require.NoError(t, err)
	if role != model.RoleUser {
		require.NoError(t, users.UpdateRole(context.Background(), username, role))
	}
}
