package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/expense-api/models"
	"github.com/upb/expense-api/repositories"
	"go.uber.org/zap"
)

var expenseRowColumns = []string{"id", "owner", "amount", "date", "description", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (repositories.ExpenseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewExpenseRepository(Wrap(db, zap.NewNop()), zap.NewNop()), mock
}

func TestExpenseRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	expense := models.NewExpense("user123", 12.5, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "lunch")

	mock.ExpectExec("INSERT INTO expenses").
		WithArgs(expense.ID, "user123", 12.5, expense.Date, "lunch", expense.CreatedAt, expense.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), expense))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_CreateError(t *testing.T) {
	repo, mock := newMockRepo(t)
	expense := models.NewExpense("user123", 1, time.Now(), "")

	mock.ExpectExec("INSERT INTO expenses").WillReturnError(sql.ErrConnDone)

	err := repo.Create(context.Background(), expense)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "failed to create expense")
}

func TestExpenseRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()
		date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id = ").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(expenseRowColumns).AddRow(id, "user123", 9.99, date, "coffee", now, now))

		expense, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, expense.ID)
		assert.Equal(t, "user123", expense.Owner)
		assert.Equal(t, 9.99, expense.Amount)
		assert.Equal(t, date, expense.Date)
		assert.Equal(t, "coffee", expense.Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id = ").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		expense, err := repo.GetByID(context.Background(), id)
		assert.Nil(t, expense)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestExpenseRepository_ListByOwner(t *testing.T) {
	t.Run("returns rows in query order", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now().UTC()
		first, second := uuid.New(), uuid.New()

		mock.ExpectQuery("FROM expenses WHERE owner = (.+) ORDER BY date DESC").
			WithArgs("user123").
			WillReturnRows(sqlmock.NewRows(expenseRowColumns).
				AddRow(first, "user123", 5.0, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "", now, now).
				AddRow(second, "user123", 7.0, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "", now, now))

		expenses, err := repo.ListByOwner(context.Background(), "user123")
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, first, expenses[0].ID)
		assert.Equal(t, second, expenses[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("FROM expenses WHERE owner").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(expenseRowColumns))

		expenses, err := repo.ListByOwner(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, expenses)
		assert.Empty(t, expenses)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("FROM expenses WHERE owner").WillReturnError(errors.New("boom"))

		_, err := repo.ListByOwner(context.Background(), "user123")
		assert.Error(t, err)
	})
}

func TestExpenseRepository_Update(t *testing.T) {
	t.Run("scoped to owner", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		expense := models.NewExpense("user123", 20, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "dinner")

		mock.ExpectExec("UPDATE expenses").
			WithArgs(20.0, expense.Date, "dinner", expense.UpdatedAt, expense.ID, "user123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), expense))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no affected rows is not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		expense := models.NewExpense("intruder", 20, time.Now(), "")

		mock.ExpectExec("UPDATE expenses").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), expense), repositories.ErrNotFound)
	})
}

func TestExpenseRepository_Delete(t *testing.T) {
	t.Run("deletes owned row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectExec("DELETE FROM expenses WHERE id = (.+) AND owner = ").
			WithArgs(id, "user123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), id, "user123"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := uuid.New()

		mock.ExpectExec("DELETE FROM expenses").
			WithArgs(id, "user123").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id, "user123"), repositories.ErrNotFound)
	})

	t.Run("rows affected error", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("DELETE FROM expenses").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("driver cannot count")))

		err := repo.Delete(context.Background(), uuid.New(), "user123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestExpenseRepository_SummarizeByDate(t *testing.T) {
	repo, mock := newMockRepo(t)
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT date, SUM\\(amount\\) AS total FROM expenses WHERE owner = (.+) GROUP BY date ORDER BY date").
		WithArgs("user123").
		WillReturnRows(sqlmock.NewRows([]string{"date", "total"}).
			AddRow(d1, 30.5).
			AddRow(d2, 4.0))

	totals, err := repo.SummarizeByDate(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, []models.DailyTotal{{Date: d1, Total: 30.5}, {Date: d2, Total: 4.0}}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}
