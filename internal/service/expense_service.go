package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"trackit-be/internal/entities"
	"trackit-be/internal/models"
	"trackit-be/internal/repository"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// ExpenseService defines the interface for per-user expense operations.
// userID always comes from a verified token, never from the request body.
type ExpenseService interface {
	List(ctx context.Context, userID string) ([]*entities.Expense, error)
	Create(ctx context.Context, userID string, req *models.CreateExpenseRequest) (*entities.Expense, error)
	Update(ctx context.Context, userID, id string, req *models.UpdateExpenseRequest) (*entities.Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

type expenseService struct {
	expenses repository.ExpenseRepository
	log      *zap.SugaredLogger
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenses repository.ExpenseRepository, log *zap.SugaredLogger) ExpenseService {
	return &expenseService{expenses: expenses, log: log}
}

func (s *expenseService) List(ctx context.Context, userID string) ([]*entities.Expense, error) {
	list, err := s.expenses.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list expenses", err)
	}
	return list, nil
}

func (s *expenseService) Create(ctx context.Context, userID string, req *models.CreateExpenseRequest) (*entities.Expense, error) {
	title := strings.TrimSpace(req.Title)
	category := strings.TrimSpace(req.Category)
	if title == "" || category == "" || req.Date == "" || !validAmount(req.Amount) {
		return nil, newPublicError(ErrValidation, "All fields are required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	expense, err := s.expenses.Create(ctx, &entities.Expense{
		UserID:   userID,
		Title:    title,
		Amount:   req.Amount,
		Category: category,
		Date:     date,
	})
	if err != nil {
		return nil, storeError("create expense", err)
	}

	s.log.Debugw("expense created", "user_id", userID, "expense_id", expense.ID)
	return expense, nil
}

func (s *expenseService) Update(ctx context.Context, userID, id string, req *models.UpdateExpenseRequest) (*entities.Expense, error) {
	if strings.TrimSpace(id) == "" {
		return nil, notOwned()
	}

	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}

	expense, err := s.expenses.UpdateForUser(ctx, id, userID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notOwned()
	}
	if err != nil {
		return nil, storeError("update expense", err)
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return notOwned()
	}

	err := s.expenses.DeleteForUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return notOwned()
	}
	if err != nil {
		return storeError("delete expense", err)
	}

	s.log.Debugw("expense deleted", "user_id", userID, "expense_id", id)
	return nil
}

func notOwned() error {
	return newPublicError(ErrNotFoundOrUnauthorized, "Not found or unauthorized")
}

func buildPatch(req *models.UpdateExpenseRequest) (entities.ExpensePatch, error) {
	var patch entities.ExpensePatch
	if req == nil {
		return patch, nil
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return patch, newPublicError(ErrValidation, "Title cannot be empty")
		}
		patch.Title = &title
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return patch, newPublicError(ErrValidation, "Category cannot be empty")
		}
		patch.Category = &category
	}
	if req.Amount != nil {
		if !validAmount(*req.Amount) {
			return patch, newPublicError(ErrValidation, "Amount must be a non-zero number")
		}
		amount := *req.Amount
		patch.Amount = &amount
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	return patch, nil
}

func validAmount(a float64) bool {
	return a != 0 && !math.IsNaN(a) && !math.IsInf(a, 0)
}

// parseDate accepts a full timestamp, a datetime-local value or a bare date.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, newPublicError(ErrValidation, "Invalid date")
}
