package repository

import (
	"context"
	"errors"

	"trackit-be/internal/entities"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create assigns an id and creation time and stores the user.
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}

// ExpenseRepository defines the interface for expense storage.
// Every lookup after Create is scoped by owner: a record held by another user
// behaves exactly like a missing one.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entities.Expense) (*entities.Expense, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.Expense, error)
	UpdateForUser(ctx context.Context, id, userID string, patch entities.ExpensePatch) (*entities.Expense, error)
	DeleteForUser(ctx context.Context, id, userID string) error
}
