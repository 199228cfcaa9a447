package entities

import "time"

// Expense represents a single spending record owned by one user
type Expense struct {
	ID        string    `json:"id" db:"id" bson:"_id"`
	UserID    string    `json:"user_id" db:"user_id" bson:"user_id"`
	Title     string    `json:"title" db:"title" bson:"title"`
	Amount    float64   `json:"amount" db:"amount" bson:"amount"`
	Category  string    `json:"category" db:"category" bson:"category"`
	Date      time.Time `json:"date" db:"date" bson:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// ExpensePatch holds the fields of a partial update; nil means "leave as is".
type ExpensePatch struct {
	Title    *string
	Amount   *float64
	Category *string
	Date     *time.Time
}

// Empty reports whether the patch changes nothing.
func (p ExpensePatch) Empty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil && p.Date == nil
}
