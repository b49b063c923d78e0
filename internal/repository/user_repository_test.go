package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoub-kd/costume-rental/internal/utils"
)

func TestUserCreateNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Alice", "alice@example.com", sqlmock.AnyArg(), "user").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewUserRepo(db)
	id, err := repo.Create(context.Background(), "Alice", "  Alice@Example.COM ", "password", "user", 4)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice@example.com' for key 'users.uq_users_email'"))

	repo := NewUserRepo(db)
	_, err = repo.Create(context.Background(), "Alice", "alice@example.com", "password", "user", 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := utils.HashPassword("password", 4)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email=\?`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(1, "Alice", "alice@example.com", hash, "user", now, now))

	repo := NewUserRepo(db)
	u, err := repo.GetByEmail(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "password"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefresh(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash := utils.HashRefreshRaw("raw-token")
	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens WHERE token_hash=\?`).
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

	repo := NewTokenRepo(db)
	uid, err := repo.ValidateRefresh(context.Background(), hash)
	require.NoError(t, err)
	assert.EqualValues(t, 7, uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshRejectsUnknownToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens WHERE token_hash=\?`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	repo := NewTokenRepo(db)
	_, err = repo.ValidateRefresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}
