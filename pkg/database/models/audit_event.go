package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is one persisted record of a security-relevant operation. Events
// are written regardless of whether the operation succeeded.
type AuditEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Action    string    `json:"action" db:"action"`
	Actor     string    `json:"actor" db:"actor"`
	Subject   string    `json:"subject" db:"subject"`
	Detail    string    `json:"detail" db:"detail"`
	Success   bool      `json:"success" db:"success"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
