package models

import (
	"time"
)

// Student defines the student profile based on the 'students' table. Each
// student row is linked to exactly one user account via UserID; the email
// column mirrors the user's email for display.
type Student struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	StudentID string    `json:"studentId" db:"student_id"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
