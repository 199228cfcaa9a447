package entities

import "time"

// User represents a registered account
type User struct {
	ID           string    `json:"id" db:"id" bson:"_id"`
	Name         string    `json:"name" db:"name" bson:"name"`
	Email        string    `json:"email" db:"email" bson:"email"`
	Phone        string    `json:"phone" db:"phone" bson:"phone"`
	PasswordHash string    `json:"-" db:"password_hash" bson:"password_hash"` // Don't expose password hash in JSON
	CreatedAt    time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}
