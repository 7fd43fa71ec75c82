package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
)

var userRowColumns = []string{"id", "email", "full_name", "role", "active", "password_hash", "last_login", "created_at", "updated_at"}

func TestUserRepositoryCreateStampsTimestamps(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@example.com", "Admin", "ADMIN", true, "hash", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(1, "a@example.com", "Admin", "ADMIN", true, "hash", nil, now, now))
	mock.ExpectCommit()

	user := &models.User{Email: "a@example.com", FullName: "Admin", Role: models.RoleAdmin, Active: true, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(1), user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("A@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(3, "a@example.com", "Admin", "ADMIN", true, "hash", nil, now, now))

	user, err := repo.FindByEmail(context.Background(), "A@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateLastLogin(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewUserRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1")).
		WithArgs(int64(3), ts, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), 3, ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}
