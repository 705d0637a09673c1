package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventdeck/internal/model"
)

func newUserRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

var userCols = []string{"id", "username", "email", "password_hash", "role", "bio", "tags", "likes", "created_at"}

func TestUserRepo_FindByUsername_Found(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE username=?")).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			7, "bob", "bob@example.com", "$2a$10$hash", "author",
			`{"answers":[{"q1":"a1"}]}`, `["go","music"]`, `[3,5]`, created))

	u, err := repo.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, model.RoleAuthor, u.Role)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	require.NotNil(t, u.Bio)
	assert.Equal(t, []map[string]string{{"q1": "a1"}}, u.Bio.Answers)
	assert.Equal(t, []string{"go", "music"}, u.Tags)
	assert.Equal(t, []int64{3, 5}, u.Likes)
	assert.Equal(t, created, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByUsername_NullBio(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE username=\?`).
		WithArgs("ann").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			1, "ann", "", "h", "user", nil, `[]`, `[]`, time.Now()))

	u, err := repo.FindByUsername(context.Background(), "ann")
	require.NoError(t, err)
	assert.Nil(t, u.Bio)
	assert.Empty(t, u.Tags)
}

func TestUserRepo_FindByUsername_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE username=\?`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_FindByUsername_DBError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("db down"))

	_, err := repo.FindByUsername(context.Background(), "bob")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_Insert(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username,email,password_hash,role,bio,tags,likes,created_at)")).
		WithArgs("bob", "bob@example.com", "$2a$hash", "user", sql.NullString{}, "[]", "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	u, err := repo.Insert(context.Background(), model.User{
		Username: "bob", Email: "bob@example.com", PasswordHash: "$2a$hash", Role: model.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u.ID)
	assert.Equal(t, []string{}, u.Tags)
	assert.Equal(t, []int64{}, u.Likes)
	assert.False(t, u.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Insert_WithBio(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	bio := sql.NullString{String: `{"answers":[{"why":"fun"}]}`, Valid: true}
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("amy", "", "h", "user", bio, `["x"]`, "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := repo.Insert(context.Background(), model.User{
		Username: "amy", PasswordHash: "h", Role: model.RoleUser,
		Bio:  &model.Answers{Answers: []map[string]string{{"why": "fun"}}},
		Tags: []string{"x"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Insert_Duplicate(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'bob' for key 'username'"})

	_, err := repo.Insert(context.Background(), model.User{Username: "bob", PasswordHash: "h", Role: model.RoleUser})
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserRepo_UpdateRole(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role=? WHERE username=?")).
		WithArgs("admin", "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateRole(context.Background(), "bob", model.RoleAdmin))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetLike_Add(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT likes FROM users WHERE username=\? FOR UPDATE`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(`[1,2]`))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET likes=? WHERE username=?")).
		WithArgs("[1,2,9]", "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	likes, err := repo.SetLike(context.Background(), "bob", 9, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 9}, likes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetLike_AlreadyLiked(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT likes FROM users`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(`[9]`))
	mock.ExpectCommit()

	likes, err := repo.SetLike(context.Background(), "bob", 9, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, likes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetLike_Remove(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT likes FROM users`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(`[4]`))
	mock.ExpectExec(`UPDATE users SET likes=\?`).
		WithArgs("[]", "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	likes, err := repo.SetLike(context.Background(), "bob", 4, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{}, likes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetLike_UserMissing(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT likes FROM users`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.SetLike(context.Background(), "ghost", 1, true)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
