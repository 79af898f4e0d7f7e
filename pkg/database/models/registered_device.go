package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceStatus is the registration lifecycle state of an external device.
type DeviceStatus string

const (
	DeviceStatusPending  DeviceStatus = "PENDING"
	DeviceStatusApproved DeviceStatus = "APPROVED"
	DeviceStatusRejected DeviceStatus = "REJECTED"
	DeviceStatusRevoked  DeviceStatus = "REVOKED"
)

// Terminal reports whether no further transition is valid from the status.
func (s DeviceStatus) Terminal() bool {
	return s == DeviceStatusRejected || s == DeviceStatusRevoked
}

// RegisteredDevice is an external device that has requested (or holds) trust.
// Rows are never deleted; terminal states are kept for audit.
type RegisteredDevice struct {
	ID                   uuid.UUID    `json:"id" db:"id"`
	AccountID            uuid.UUID    `json:"account_id" db:"account_id"`
	Name                 string       `json:"name" db:"name"`
	MacAddress           string       `json:"mac_address" db:"mac_address"`
	Fingerprint          string       `json:"fingerprint" db:"fingerprint"`
	Status               DeviceStatus `json:"status" db:"status"`
	CertificateSerial    *string      `json:"certificate_serial,omitempty" db:"certificate_serial"`
	CertificateExpiresAt *time.Time   `json:"certificate_expires_at,omitempty" db:"certificate_expires_at"`
	StatusChangedBy      *string      `json:"status_changed_by,omitempty" db:"status_changed_by"`
	StatusReason         *string      `json:"status_reason,omitempty" db:"status_reason"`
	RequestedAt          time.Time    `json:"requested_at" db:"requested_at"`
	StatusChangedAt      *time.Time   `json:"status_changed_at,omitempty" db:"status_changed_at"`
}
