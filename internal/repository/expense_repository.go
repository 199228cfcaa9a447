package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"trackit-be/internal/entities"
	"trackit-be/internal/idgen"
)

const expenseColumns = `id, user_id, title, amount, category, date, created_at, updated_at`

type expenseRepository struct {
	db  *sqlx.DB
	ids *idgen.Generator
}

// NewExpenseRepository creates an expense repository over PostgreSQL or SQLite
func NewExpenseRepository(db *sqlx.DB, ids *idgen.Generator) ExpenseRepository {
	return &expenseRepository{db: db, ids: ids}
}

// Create inserts a new expense owned by expense.UserID
func (r *expenseRepository) Create(ctx context.Context, expense *entities.Expense) (*entities.Expense, error) {
	now := time.Now().UTC()
	e := *expense
	e.ID = r.ids.Next()
	e.Date = e.Date.UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (:id, :user_id, :title, :amount, :category, :date, :created_at, :updated_at)
	`, &e)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &e, nil
}

// ListByUser retrieves all expenses for a user, newest date first
func (r *expenseRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Expense, error) {
	query := r.db.Rebind(`
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
	`)

	expenses := []*entities.Expense{}
	if err := r.db.SelectContext(ctx, &expenses, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// UpdateForUser applies patch to the expense only if userID owns it
func (r *expenseRepository) UpdateForUser(ctx context.Context, id, userID string, patch entities.ExpensePatch) (*entities.Expense, error) {
	if patch.Empty() {
		return r.findForUser(ctx, id, userID)
	}

	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *patch.Amount)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, patch.Date.UTC())
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, userID)

	query := r.db.Rebind(`
		UPDATE expenses
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = ? AND user_id = ?
		RETURNING ` + expenseColumns)

	var e entities.Expense
	err := r.db.GetContext(ctx, &e, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return &e, nil
}

// DeleteForUser removes the expense only if userID owns it
func (r *expenseRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	query := r.db.Rebind(`DELETE FROM expenses WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expenseRepository) findForUser(ctx context.Context, id, userID string) (*entities.Expense, error) {
	query := r.db.Rebind(`
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = ? AND user_id = ?
	`)

	var e entities.Expense
	err := r.db.GetContext(ctx, &e, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	return &e, nil
}
