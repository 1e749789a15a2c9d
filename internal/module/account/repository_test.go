package account

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/quickai/server/internal/module/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var accountColumns = []string{"user_id", "plan", "free_usage", "stripe_customer_id", "created_at", "updated_at"}

func TestRepository_GetOrCreate(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE user_id = \$1`).
			WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("user_1", "premium", 4, "cus_1", now, now))

		acct, err := repo.GetOrCreate(context.Background(), "user_1")
		require.NoError(t, err)
		assert.Equal(t, "premium", acct.Plan)
		assert.Equal(t, 4, acct.FreeUsage)
		assert.Equal(t, "cus_1", acct.StripeCustomerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first sight creates a free account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE user_id = \$1`).
			WillReturnRows(sqlmock.NewRows(accountColumns))
		mock.ExpectExec(`INSERT INTO "accounts" .* ON CONFLICT DO NOTHING`).
			WithArgs("user_2", "free", 0, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		acct, err := repo.GetOrCreate(context.Background(), "user_2")
		require.NoError(t, err)
		assert.Equal(t, "user_2", acct.UserID)
		assert.Equal(t, string(pipeline.PlanFree), acct.Plan)
		assert.Zero(t, acct.FreeUsage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "accounts"`).WillReturnError(assert.AnError)

		_, err := repo.GetOrCreate(context.Background(), "user_1")
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestRepository_GetByStripeCustomer_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE stripe_customer_id = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.GetByStripeCustomer(context.Background(), "cus_missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_SetPlan(t *testing.T) {
	t.Run("updates plan and customer", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE "accounts" SET "plan"=\$1,"stripe_customer_id"=\$2,"updated_at"=\$3 WHERE user_id = \$4`).
			WithArgs("premium", "cus_1", sqlmock.AnyArg(), "user_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetPlan(context.Background(), "user_1", pipeline.PlanPremium, "cus_1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE "accounts" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetPlan(context.Background(), "ghost", pipeline.PlanFree, "")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestRepository_IncrementUsage(t *testing.T) {
	t.Run("single statement increment", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE "accounts" SET "free_usage"=free_usage \+ \$1 WHERE user_id = \$2`).
			WithArgs(1, "user_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.IncrementUsage(context.Background(), "user_1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE "accounts" SET "free_usage"`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.IncrementUsage(context.Background(), "ghost"), ErrAccountNotFound)
	})
}
