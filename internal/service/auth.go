package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/eventdeck/internal/model"
	"github.com/iliyamo/eventdeck/internal/queue"
	"github.com/iliyamo/eventdeck/internal/repository"
	"github.com/iliyamo/eventdeck/internal/utils"
)

// UserStore is the credential store the auth core depends on.
// *repository.UserRepo satisfies it; tests use an in-memory fake.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Insert(ctx context.Context, u model.User) (model.User, error)
	UpdateRole(ctx context.Context, username string, role model.Role) error
	SetLike(ctx context.Context, username string, eventID int64, liked bool) ([]int64, error)
}

// AuthService verifies credentials, issues tokens and turns tokens back
// into identities.
type AuthService struct {
	users    UserStore
	secret   string
	ttl      time.Duration
	cost     int
	activity ActivityPublisher
	log      zerolog.Logger

	// dummyHash is compared against on unknown usernames so a miss costs
	// the same bcrypt work as a wrong password.
	dummyHash string
}

// NewAuthService wires the service. ttl <= 0 falls back to 30 minutes.
func NewAuthService(users UserStore, secret string, ttl time.Duration, cost int, activity ActivityPublisher, log zerolog.Logger) (*AuthService, error) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	dummy, err := utils.HashPassword("not-a-real-password", cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		secret:    secret,
		ttl:       ttl,
		cost:      cost,
		activity:  activity,
		log:       log,
		dummyHash: dummy,
	}, nil
}

// RegisterInput is the data accepted at signup. Role is not part of it;
// new accounts are always plain users.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Bio      *model.Answers
}

// Register hashes the password and stores a new user record. A taken
// username yields repository.ErrUsernameExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.Identity, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return model.Identity{}, err
	}
	u, err := s.users.Insert(ctx, model.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         model.RoleUser,
		Bio:          in.Bio,
	})
	if err != nil {
		return model.Identity{}, err
	}
	notify(s.activity, s.log, queue.ActivityEvent{Type: queue.TypeUserRegistered, Username: u.Username})
	return u.Identity(), nil
}

// Authenticate checks username and password against the store. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.Identity, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		utils.VerifyPassword(s.dummyHash, password)
		return model.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.Identity{}, ErrInvalidCredentials
	}
	return u.Identity(), nil
}

// IssueToken signs an access token whose subject is the identity's username.
func (s *AuthService) IssueToken(id model.Identity) (utils.AccessToken, error) {
	return utils.NewAccessToken(s.secret, id.Username, s.ttl)
}

// Login authenticates and issues a token in one step.
func (s *AuthService) Login(ctx context.Context, username, password string) (utils.AccessToken, error) {
	id, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return utils.AccessToken{}, err
	}
	return s.IssueToken(id)
}

// ResolveToken validates raw and loads the identity it names. Tokens whose
// subject no longer exists are treated as invalid. The record is re-read on
// every call so role changes apply to tokens already issued.
func (s *AuthService) ResolveToken(ctx context.Context, raw string) (model.Identity, error) {
	sub, err := utils.ParseAccessToken(s.secret, raw)
	if err != nil {
		return model.Identity{}, err
	}
	u, err := s.users.FindByUsername(ctx, sub)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.Identity{}, utils.ErrInvalidToken
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("lookup user: %w", err)
	}
	return u.Identity(), nil
}

// SetRole assigns role to an existing user.
func (s *AuthService) SetRole(ctx context.Context, username string, role model.Role) (model.Identity, error) {
	if !role.Valid() {
		return model.Identity{}, ErrInvalidRole
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.Identity{}, err
	}
	if u.Role != role {
		if err := s.users.UpdateRole(ctx, username, role); err != nil {
			return model.Identity{}, fmt.Errorf("update role: %w", err)
		}
		u.Role = role
	}
	return u.Identity(), nil
}

// BootstrapAdmin creates an admin account when username is configured and
// absent. It reports whether a record was inserted; an existing user of
// that name is left untouched.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	hash, err := s.hash(password)
	if err != nil {
		return false, fmt.Errorf("admin password: %w", err)
	}
	_, err = s.users.Insert(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if errors.Is(err, repository.ErrUsernameExists) {
		// another instance won the race
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// hash rejects passwords bcrypt would refuse before paying for the hash.
func (s *AuthService) hash(password string) (string, error) {
	if len(password) > utils.MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	h, err := utils.HashPassword(password, s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}
