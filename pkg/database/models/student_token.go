package models

import (
	"time"

	"github.com/google/uuid"
)

// StudentToken maps an internal student identity to the opaque value exported
// in its place. Tokens are deactivated on rotation but never deleted, so the
// full chain of custody stays auditable. At most one token per student per
// school year may be active.
type StudentToken struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	StudentID       uuid.UUID  `json:"student_id" db:"student_id"`
	TokenValue      string     `json:"token_value" db:"token_value"`
	SchoolYear      string     `json:"school_year" db:"school_year"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt       time.Time  `json:"expires_at" db:"expires_at"`
	RotationCount   int        `json:"rotation_count" db:"rotation_count"`
	Active          bool       `json:"active" db:"active"`
	PreviousTokenID *uuid.UUID `json:"previous_token_id,omitempty" db:"previous_token_id"`
}
