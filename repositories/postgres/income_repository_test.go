package postgres

import (
	"context"
	"database/sql"
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

func newMockIncomeRepo(t *testing.T) (repositories.IncomeRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewIncomeRepository(Wrap(db, zap.NewNop()), zap.NewNop()), mock
}

func TestIncomeRepository_Create(t *testing.T) {
	repo, mock := newMockIncomeRepo(t)
	income := models.NewIncome("user123", 1500, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "salary")

	mock.ExpectExec("INSERT INTO incomes").
		WithArgs(income.ID, "user123", 1500.0, income.Date, "salary", income.CreatedAt, income.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), income))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockIncomeRepo(t)
		id := uuid.New()
		date := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM incomes WHERE id = ").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(expenseRowColumns).AddRow(id, "user123", 1500.0, date, "salary", now, now))

		income, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, income.ID)
		assert.Equal(t, "user123", income.Owner)
		assert.Equal(t, date, income.Date)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockIncomeRepo(t)
		id := uuid.New()

		mock.ExpectQuery("FROM incomes WHERE id = ").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		income, err := repo.GetByID(context.Background(), id)
		assert.Nil(t, income)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.Contains(t, err.Error(), "income")
	})
}

func TestIncomeRepository_ListByOwner(t *testing.T) {
	repo, mock := newMockIncomeRepo(t)
	now := time.Now().UTC()
	id := uuid.New()

	mock.ExpectQuery("FROM incomes WHERE owner = (.+) ORDER BY date DESC").
		WithArgs("user123").
		WillReturnRows(sqlmock.NewRows(expenseRowColumns).
			AddRow(id, "user123", 200.0, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "", now, now))

	incomes, err := repo.ListByOwner(context.Background(), "user123")
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, id, incomes[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeRepository_Update(t *testing.T) {
	t.Run("updates owned row", func(t *testing.T) {
		repo, mock := newMockIncomeRepo(t)
		income := models.NewIncome("user123", 10, time.Now(), "tips")

		mock.ExpectExec("UPDATE incomes SET amount = (.+) WHERE id = (.+) AND owner = ").
			WithArgs(income.Amount, income.Date, income.Description, income.UpdatedAt, income.ID, income.Owner).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), income))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign row is not found", func(t *testing.T) {
		repo, mock := newMockIncomeRepo(t)
		income := models.NewIncome("intruder", 10, time.Now(), "")

		mock.ExpectExec("UPDATE incomes").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), income), repositories.ErrNotFound)
	})
}

func TestIncomeRepository_Delete(t *testing.T) {
	repo, mock := newMockIncomeRepo(t)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM incomes WHERE id = (.+) AND owner = ").
		WithArgs(id, "user123").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id, "user123")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, err.Error(), "income "+id.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeRepository_SummarizeByDate(t *testing.T) {
	repo, mock := newMockIncomeRepo(t)
	d1 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT date, SUM\\(amount\\) AS total FROM incomes WHERE owner = (.+) GROUP BY date ORDER BY date").
		WithArgs("user123").
		WillReturnRows(sqlmock.NewRows([]string{"date", "total"}).
			AddRow(d1, 250.0).
			AddRow(d2, 1500.0))

	totals, err := repo.SummarizeByDate(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, []models.DailyTotal{{Date: d1, Total: 250}, {Date: d2, Total: 1500}}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}
