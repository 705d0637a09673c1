package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/iliyamo/eventdeck/internal/model"
)

// UserRepo is the credential store. Username is the only lookup key.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,role,bio,tags,likes,created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u                model.User
		role             string
		bio, tags, likes []byte
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &bio, &tags, &likes, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	if len(bio) > 0 && string(bio) != "null" {
		u.Bio = &model.Answers{}
		if err := decodeJSON(bio, u.Bio); err != nil {
			return model.User{}, fmt.Errorf("decode bio: %w", err)
		}
	}
	if err := decodeJSON(tags, &u.Tags); err != nil {
		return model.User{}, fmt.Errorf("decode tags: %w", err)
	}
	if err := decodeJSON(likes, &u.Likes); err != nil {
		return model.User{}, fmt.Errorf("decode likes: %w", err)
	}
	return u, nil
}

// FindByUsername fetches a user by exact username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// Insert stores u and returns it with ID and CreatedAt filled in. The
// caller is responsible for putting a hash, not a password, in
// PasswordHash.
func (r *UserRepo) Insert(ctx context.Context, u model.User) (model.User, error) {
	bio, err := encodeNullableJSON(u.Bio, u.Bio == nil)
	if err != nil {
		return model.User{}, err
	}
	u.Tags = stringsOrEmpty(u.Tags)
	u.Likes = idsOrEmpty(u.Likes)
	tags, err := encodeJSON(u.Tags)
	if err != nil {
		return model.User{}, err
	}
	likes, err := encodeJSON(u.Likes)
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username,email,password_hash,role,bio,tags,likes,created_at) VALUES (?,?,?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, string(u.Role), bio, tags, likes, u.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u.ID = uint64(id)
	return u, nil
}

// UpdateRole overwrites the role of an existing user.
func (r *UserRepo) UpdateRole(ctx context.Context, username string, role model.Role) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE username=?", string(role), username)
	return err
}

// SetLike adds (liked=true) or removes eventID from the user's likes and
// returns the resulting list. The row is locked for the read-modify-write
// so concurrent likes by the same user don't overwrite each other.
func (r *UserRepo) SetLike(ctx context.Context, username string, eventID int64, liked bool) ([]int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		"SELECT likes FROM users WHERE username=? FOR UPDATE", username).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	var likes []int64
	if err := decodeJSON(raw, &likes); err != nil {
		return nil, fmt.Errorf("decode likes: %w", err)
	}

	idx := slices.Index(likes, eventID)
	switch {
	case liked && idx < 0:
		likes = append(likes, eventID)
	case !liked && idx >= 0:
		likes = slices.Delete(likes, idx, idx+1)
	default:
		// already in the requested state
		return idsOrEmpty(likes), tx.Commit()
	}
	likes = idsOrEmpty(likes)

	enc, err := encodeJSON(likes)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET likes=? WHERE username=?", enc, username); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return likes, nil
}
