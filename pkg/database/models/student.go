package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is the internal identity record. It never crosses the trust
// boundary; downstream systems only ever see the student's token.
type Student struct {
	ID            uuid.UUID `json:"id" db:"id"`
	StudentNumber string    `json:"student_number" db:"student_number"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	EnrolledAt    time.Time `json:"enrolled_at" db:"enrolled_at"`
	Active        bool      `json:"active" db:"active"`
}
