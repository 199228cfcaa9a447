package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trackit-be/internal/middleware"
	"trackit-be/internal/models"
	"trackit-be/internal/service"
)

type ExpenseController struct {
	expenseService service.ExpenseService
	log            *zap.SugaredLogger
}

func NewExpenseController(expenseService service.ExpenseService, log *zap.SugaredLogger) *ExpenseController {
	return &ExpenseController{
		expenseService: expenseService,
		log:            log,
	}
}

// userID reads the id set by the auth middleware; routes without it are a wiring bug.
func (ec *ExpenseController) userID(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ec.log, service.ErrUnauthorized)
	}
	return id, ok
}

// ListExpenses handles GET /expenses
func (ec *ExpenseController) ListExpenses(c *gin.Context) {
	userID, ok := ec.userID(c)
	if !ok {
		return
	}

	expenses, err := ec.expenseService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// CreateExpense handles POST /expenses
func (ec *ExpenseController) CreateExpense(c *gin.Context) {
	userID, ok := ec.userID(c)
	if !ok {
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "All fields are required")
		return
	}

	expense, err := ec.expenseService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// UpdateExpense handles PUT /expenses/:id
func (ec *ExpenseController) UpdateExpense(c *gin.Context) {
	userID, ok := ec.userID(c)
	if !ok {
		return
	}

	// a missing body is an empty patch
	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body")
		return
	}

	expense, err := ec.expenseService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense handles DELETE /expenses/:id
func (ec *ExpenseController) DeleteExpense(c *gin.Context) {
	userID, ok := ec.userID(c)
	if !ok {
		return
	}

	if err := ec.expenseService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, ec.log, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Expense deleted"})
}
