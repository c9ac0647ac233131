package user

import (
	"context"
	"errors"
	"testing"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/points-ledger/internal/domain/error"
	coremocks "github.com/amirhossein-jamali/points-ledger/internal/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/points-ledger/internal/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFixture() (*persistencemocks.UserRepository, *persistencemocks.TransactionRepository, *persistencemocks.UnitOfWork) {
	users := &persistencemocks.UserRepository{}
	transactions := &persistencemocks.TransactionRepository{}
	return users, transactions, persistencemocks.NewUnitOfWork(users, transactions)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful user creation", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("EmailExists", ctx, "a@example.com").Return(false, nil).Once()
		users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "a@example.com" && u.Name == "Alice" && u.PointsBalance() == 0
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = 5
		}).Return(nil).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		user, err := uc.CreateUser(ctx, "a@example.com", "Alice", 0)

		require.NoError(t, err)
		assert.Equal(t, uint64(5), user.ID)
		assert.Equal(t, "Alice", user.Name)
		users.AssertExpectations(t)
	})

	t.Run("Duplicate email is rejected before insert", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("EmailExists", ctx, "a@example.com").Return(true, nil).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		user, err := uc.CreateUser(ctx, "a@example.com", "Alice", 0)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, errs.ErrDuplicateEmail)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate email detected by the store", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("EmailExists", ctx, "a@example.com").Return(false, nil).Once()
		users.On("Create", ctx, mock.Anything).Return(errs.ErrDuplicateEmail).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		_, err := uc.CreateUser(ctx, "a@example.com", "Alice", 0)

		assert.ErrorIs(t, err, errs.ErrDuplicateEmail)
	})

	t.Run("Email comparison is case-sensitive", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("EmailExists", ctx, "A@example.com").Return(false, nil).Once()
		users.On("Create", ctx, mock.Anything).Return(nil).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		_, err := uc.CreateUser(ctx, "A@example.com", "Alice", 0)

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("Invalid input never reaches the store", func(t *testing.T) {
		users, _, uow := newFixture()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		_, err := uc.CreateUser(ctx, "", "Alice", 0)

		assert.ErrorIs(t, err, errs.ErrInvalidEmail)
		users.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
	})

	t.Run("Store failure is returned", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("EmailExists", ctx, "a@example.com").Return(false, nil).Once()
		users.On("Create", ctx, mock.Anything).Return(errs.ErrDatabaseConnection).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		_, err := uc.CreateUser(ctx, "a@example.com", "Alice", 0)

		assert.True(t, errs.IsPersistenceError(err))
	})
}

func TestCreateDefaultUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("Seeds only missing users", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("EmailExists", ctx, "user1@example.com").Return(true, nil)
		for _, du := range DefaultUsers[1:] {
			users.On("EmailExists", ctx, du.Email).Return(false, nil)
		}
		users.On("Create", ctx, mock.Anything).Return(nil).Times(3)

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		require.NoError(t, uc.CreateDefaultUsers(ctx))

		users.AssertNumberOfCalls(t, "Create", 3)
		users.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Email == "user4@example.com" && u.Name == "User Four" && u.PointsBalance() == 4
		}))
	})

	t.Run("Lookup failure stops seeding", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("EmailExists", ctx, "user1@example.com").Return(false, errs.ErrDatabaseConnection)

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		err := uc.CreateDefaultUsers(ctx)

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestGetAndListUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("Get existing user", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("GetByID", ctx, uint64(1)).Return(entity.RestoreUser(1, "a@example.com", "Alice", 10), nil)

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		user, err := uc.GetUser(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(10), user.PointsBalance())
	})

	t.Run("Get missing user", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("GetByID", ctx, uint64(9)).Return(nil, errs.ErrUserNotFound)

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		_, err := uc.GetUser(ctx, 9)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("List users", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("List", ctx).Return([]*entity.User{
			entity.RestoreUser(1, "a@example.com", "Alice", 1),
			entity.RestoreUser(2, "b@example.com", "Bob", 2),
		}, nil)

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		list, err := uc.ListUsers(ctx)

		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("List failure", func(t *testing.T) {
		users, _, uow := newFixture()
		users.On("List", ctx).Return(nil, errs.ErrDatabaseConnection)

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		_, err := uc.ListUsers(ctx)

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Transactions are removed before the user", func(t *testing.T) {
		users, transactions, uow := newFixture()
		var order []string

		uow.On("Begin", ctx).Return(ctx, nil).Once()
		users.On("GetByIDForUpdate", ctx, uint64(3)).Return(entity.RestoreUser(3, "c@example.com", "Carol", 0), nil).Once()
		transactions.On("DeleteByUserID", ctx, uint64(3)).Run(func(mock.Arguments) {
			order = append(order, "transactions")
		}).Return(int64(2), nil).Once()
		users.On("Delete", ctx, uint64(3)).Run(func(mock.Arguments) {
			order = append(order, "user")
		}).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		require.NoError(t, uc.DeleteUser(ctx, 3))

		assert.Equal(t, []string{"transactions", "user"}, order)
		uow.AssertNotCalled(t, "Rollback", mock.Anything)
		uow.AssertExpectations(t)
	})

	t.Run("Missing user rolls back", func(t *testing.T) {
		users, transactions, uow := newFixture()
		uow.On("Begin", ctx).Return(ctx, nil).Once()
		users.On("GetByIDForUpdate", ctx, uint64(9)).Return(nil, errs.ErrUserNotFound).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		err := uc.DeleteUser(ctx, 9)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		transactions.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("Failure after removing transactions rolls back", func(t *testing.T) {
		users, transactions, uow := newFixture()
		uow.On("Begin", ctx).Return(ctx, nil).Once()
		users.On("GetByIDForUpdate", ctx, uint64(3)).Return(entity.RestoreUser(3, "c@example.com", "Carol", 0), nil).Once()
		transactions.On("DeleteByUserID", ctx, uint64(3)).Return(int64(1), nil).Once()
		users.On("Delete", ctx, uint64(3)).Return(errs.ErrDatabaseConnection).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		err := uc.DeleteUser(ctx, 3)

		assert.True(t, errs.IsPersistenceError(err))
		uow.AssertExpectations(t)
	})

	t.Run("Begin failure", func(t *testing.T) {
		_, _, uow := newFixture()
		beginErr := errors.New("connection refused")
		uow.On("Begin", ctx).Return(nil, beginErr).Once()

		uc := NewUserUseCase(uow, coremocks.NewPermissiveLogger())
		err := uc.DeleteUser(ctx, 3)

		assert.ErrorIs(t, err, beginErr)
	})
}
