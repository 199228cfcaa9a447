package models

// CreateExpenseRequest represents the request body for creating an expense.
// Date accepts RFC3339, "2006-01-02T15:04" or "2006-01-02".
type CreateExpenseRequest struct {
	Title    string  `json:"title" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Date     string  `json:"date" binding:"required"`
}

// UpdateExpenseRequest is a partial expense; absent fields are left unchanged
type UpdateExpenseRequest struct {
	Title    *string  `json:"title,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Category *string  `json:"category,omitempty"`
	Date     *string  `json:"date,omitempty"`
}
