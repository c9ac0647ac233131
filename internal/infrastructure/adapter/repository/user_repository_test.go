package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/database/dbtest"
	coremocks "github.com/amirhossein-jamali/points-ledger/internal/mocks/port/core"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "name", "points_balance"}

func newUserRepository(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock := dbtest.NewMockDB(t)
	return NewUserRepository(db, coremocks.NewPermissiveLogger()), mock
}

func TestUserRepositoryCreate(t *testing.T) {
	t.Run("Assigns the generated ID", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		user, err := entity.NewUser("user@example.com", "User", 5)
		require.NoError(t, err)

		require.NoError(t, repo.Create(context.Background(), user))
		assert.Equal(t, uint64(7), user.ID)
	})

	t.Run("Unique email violation", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		user, err := entity.NewUser("user@example.com", "User", 0)
		require.NoError(t, err)

		err = repo.Create(context.Background(), user)
		assert.ErrorIs(t, err, errs.ErrDuplicateEmail)
		assert.Zero(t, user.ID)
	})
}

func TestUserRepositoryGetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "user3@example.com", "User Three", 30))

		user, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), user.ID)
		assert.Equal(t, "user3@example.com", user.Email)
		assert.Equal(t, "User Three", user.Name)
		assert.Equal(t, int64(30), user.PointsBalance())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("Connection failure", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset by peer"))

		_, err := repo.GetByID(context.Background(), 1)
		assert.ErrorIs(t, err, errs.ErrPersistence)
	})
}

func TestUserRepositoryGetByIDForUpdate(t *testing.T) {
	t.Run("Locks the row", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1 .* FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "user1@example.com", "User One", 10))

		user, err := repo.GetByIDForUpdate(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), user.PointsBalance())
	})

	t.Run("Lock not available", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectQuery(`FOR UPDATE`).WillReturnError(&pgconn.PgError{Code: "55P03"})

		_, err := repo.GetByIDForUpdate(context.Background(), 1)
		assert.ErrorIs(t, err, errs.ErrUserLocked)
	})
}

func TestUserRepositoryEmailExists(t *testing.T) {
	repo, mock := newUserRepository(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WithArgs("user1@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WithArgs("USER1@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.EmailExists(context.Background(), "user1@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(context.Background(), "USER1@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepositoryList(t *testing.T) {
	repo, mock := newUserRepository(t)
	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "user1@example.com", "User One", 1).
			AddRow(2, "user2@example.com", "User Two", 2))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, uint64(1), users[0].ID)
	assert.Equal(t, uint64(2), users[1].ID)
}

func TestUserRepositorySetPointsBalance(t *testing.T) {
	t.Run("Updated", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectExec(`UPDATE "users" SET "points_balance"=\$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetPointsBalance(context.Background(), 1, 42))
	})

	t.Run("Missing user", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetPointsBalance(context.Background(), 9, 42), errs.ErrUserNotFound)
	})

	t.Run("Check constraint", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectExec(`UPDATE "users"`).
			WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "users_points_balance_check"})

		assert.ErrorIs(t, repo.SetPointsBalance(context.Background(), 1, -1), errs.ErrNegativeBalance)
	})
}

func TestUserRepositoryDelete(t *testing.T) {
	t.Run("Deleted", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectExec(`DELETE FROM "users" WHERE "users"."id" = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
	})

	t.Run("Missing user", func(t *testing.T) {
		repo, mock := newUserRepository(t)
		mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 1), errs.ErrUserNotFound)
	})
}
