package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackit-be/internal/entities"
	"trackit-be/internal/models"
)

func newExpenseFixture(t *testing.T) (ExpenseService, string, string) {
	t.Helper()
	users, expenses := newTestRepos(t)
	ctx := context.Background()

	alice, err := users.Create(ctx, &entities.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	bob, err := users.Create(ctx, &entities.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	return NewExpenseService(expenses, nopLog), alice.ID, bob.ID
}

func createReq(title, date string) *models.CreateExpenseRequest {
	return &models.CreateExpenseRequest{Title: title, Amount: 12.5, Category: "Food", Date: date}
}

func ptr[T any](v T) *T { return &v }

func TestCreateExpense(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)

	e, err := svc.Create(context.Background(), alice, createReq(" Lunch ", "2024-03-01"))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, alice, e.UserID)
	assert.Equal(t, "Lunch", e.Title)
	assert.Equal(t, 12.5, e.Amount)
	assert.True(t, e.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCreateExpenseValidation(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)
	ctx := context.Background()

	cases := map[string]*models.CreateExpenseRequest{
		"missing title":    {Amount: 1, Category: "c", Date: "2024-01-01"},
		"missing category": {Title: "t", Amount: 1, Date: "2024-01-01"},
		"zero amount":      {Title: "t", Category: "c", Date: "2024-01-01"},
		"missing date":     {Title: "t", Amount: 1, Category: "c"},
		"bad date":         {Title: "t", Amount: 1, Category: "c", Date: "yesterday"},
		"nan amount":       {Title: "t", Amount: math.NaN(), Category: "c", Date: "2024-01-01"},
	}
	for name, req := range cases {
		_, err := svc.Create(ctx, alice, req)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestCreateExpenseDateLayouts(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)
	ctx := context.Background()

	for _, raw := range []string{"2024-03-01T10:30:00Z", "2024-03-01T12:30:00+02:00", "2024-03-01T10:30", "2024-03-01"} {
		e, err := svc.Create(ctx, alice, createReq("t", raw))
		require.NoError(t, err, raw)
		assert.Equal(t, time.UTC, e.Date.Location(), raw)
	}
}

func TestListReturnsOnlyOwnExpensesNewestFirst(t *testing.T) {
	svc, alice, bob := newExpenseFixture(t)
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		_, err := svc.Create(ctx, alice, createReq(d, d))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, createReq("bob", "2024-04-01"))
	require.NoError(t, err)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"2024-03-01", "2024-02-01", "2024-01-01"},
		[]string{list[0].Title, list[1].Title, list[2].Title})
}

func TestUpdateExpense(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, createReq("Lunch", "2024-03-01"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, alice, e.ID, &models.UpdateExpenseRequest{
		Amount: ptr(99.0),
		Date:   ptr("2024-03-05"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lunch", updated.Title)
	assert.Equal(t, 99.0, updated.Amount)
	assert.True(t, updated.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateExpenseValidation(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, createReq("Lunch", "2024-03-01"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice, e.ID, &models.UpdateExpenseRequest{Title: ptr("  ")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Update(ctx, alice, e.ID, &models.UpdateExpenseRequest{Date: ptr("never")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOtherUsersExpenseIsNotFoundOrUnauthorized(t *testing.T) {
	svc, alice, bob := newExpenseFixture(t)
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, createReq("Lunch", "2024-03-01"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob, e.ID, &models.UpdateExpenseRequest{Title: ptr("mine now")})
	assert.ErrorIs(t, err, ErrNotFoundOrUnauthorized)

	_, err = svc.Update(ctx, bob, e.ID, &models.UpdateExpenseRequest{})
	assert.ErrorIs(t, err, ErrNotFoundOrUnauthorized)

	err = svc.Delete(ctx, bob, e.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrUnauthorized)

	// a missing id fails the same way
	err = svc.Delete(ctx, bob, "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFoundOrUnauthorized)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Lunch", list[0].Title)
}

func TestDeleteExpense(t *testing.T) {
	svc, alice, _ := newExpenseFixture(t)
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, createReq("Lunch", "2024-03-01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice, e.ID))
	assert.ErrorIs(t, svc.Delete(ctx, alice, e.ID), ErrNotFoundOrUnauthorized)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}
