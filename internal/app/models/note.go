package models

import (
	"time"
)

// Note defines the session note model based on the 'notes' table. A note is
// linked to exactly one student and one authoring counselor.
type Note struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	CounselorID int64     `json:"counselorId" db:"counselor_id"`
	Content     string    `json:"content" db:"content"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
