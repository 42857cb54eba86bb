package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpense(t *testing.T) {
	date := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)

	expense := NewExpense("user123", 42.5, date, "groceries")

	assert.NotEqual(t, uuid.Nil, expense.ID)
	assert.Equal(t, "user123", expense.Owner)
	assert.Equal(t, 42.5, expense.Amount)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), expense.Date)
	assert.Equal(t, "groceries", expense.Description)
	assert.False(t, expense.CreatedAt.IsZero())
	assert.Equal(t, expense.CreatedAt, expense.UpdatedAt)
}

func TestExpense_IsOwnedBy(t *testing.T) {
	expense := NewExpense("user123", 1, time.Now(), "")

	assert.True(t, expense.IsOwnedBy("user123"))
	assert.False(t, expense.IsOwnedBy("someone-else"))
	assert.False(t, expense.IsOwnedBy(""))

	var missing *Expense
	assert.False(t, missing.IsOwnedBy("user123"))
}

func TestExpense_JSONMarshaling(t *testing.T) {
	expense := NewExpense("user123", 10, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "")

	data, err := json.Marshal(expense)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "user123", decoded["owner"])
	assert.Equal(t, 10.0, decoded["amount"])
	assert.NotContains(t, decoded, "description")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestTruncateDate(t *testing.T) {
	in := time.Date(2024, 5, 6, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), TruncateDate(in))
}
