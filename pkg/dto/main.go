// Package dto holds the request and response shapes of the sync API. These
// are the only shapes that cross the trust boundary; none of them carries a
// raw student identity.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

type TokenDto struct {
	TokenValue    string    `json:"token_value"`
	SchoolYear    string    `json:"school_year"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	RotationCount int       `json:"rotation_count"`
	Active        bool      `json:"active"`
}

// Validation failure reasons for ValidateToken.
const (
	TokenReasonNotFound = "NOT_FOUND"
	TokenReasonExpired  = "EXPIRED"
	TokenReasonInactive = "INACTIVE"
)

type TokenValidationDto struct {
	Valid      bool       `json:"valid"`
	Reason     string     `json:"reason,omitempty"`
	SchoolYear string     `json:"school_year,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type TokenErrorDto struct {
	StudentID uuid.UUID `json:"student_id"`
	Error     string    `json:"error"`
}

// TokenBatchSummaryDto aggregates per-student outcomes of a batch token
// operation. One bad record never blocks the rest.
type TokenBatchSummaryDto struct {
	Total     int             `json:"total"`
	Generated int             `json:"generated"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Errors    []TokenErrorDto `json:"errors,omitempty"`
}

type RotateTokenRequest struct {
	Reason string `json:"reason"`
}

type DeviceRegistrationRequest struct {
	AccountID   uuid.UUID `json:"account_id"`
	Name        string    `json:"name"`
	MacAddress  string    `json:"mac_address"`
	Fingerprint string    `json:"fingerprint"`
}

type DeviceDto struct {
	ID                   uuid.UUID  `json:"id"`
	AccountID            uuid.UUID  `json:"account_id"`
	Name                 string     `json:"name"`
	MacAddress           string     `json:"mac_address"`
	Status               string     `json:"status"`
	CertificateSerial    *string    `json:"certificate_serial,omitempty"`
	CertificateExpiresAt *time.Time `json:"certificate_expires_at,omitempty"`
	RequestedAt          time.Time  `json:"requested_at"`
}

func DeviceToDto(d *models.RegisteredDevice) DeviceDto {
	return DeviceDto{
		ID:                   d.ID,
		AccountID:            d.AccountID,
		Name:                 d.Name,
		MacAddress:           d.MacAddress,
		Status:               string(d.Status),
		CertificateSerial:    d.CertificateSerial,
		CertificateExpiresAt: d.CertificateExpiresAt,
		RequestedAt:          d.RequestedAt,
	}
}

type ApproveDeviceRequest struct {
	ApprovedBy string `json:"approved_by"`
}

type RejectDeviceRequest struct {
	RejectedBy string `json:"rejected_by"`
	Reason     string `json:"reason"`
}

type RevokeDeviceRequest struct {
	RevokedBy string `json:"revoked_by"`
	Reason    string `json:"reason"`
}

// CertificateInstallationDto is returned once, at approval time. The
// confirmation code is read aloud over an out-of-band channel during attended
// installation.
type CertificateInstallationDto struct {
	DeviceID         uuid.UUID `json:"device_id"`
	SerialNumber     string    `json:"serial_number"`
	ExpiresAt        time.Time `json:"expires_at"`
	CertificatePEM   string    `json:"certificate_pem"`
	ConfirmationCode string    `json:"confirmation_code"`
	Instructions     []string  `json:"instructions"`
}

type CRLEntryDto struct {
	SerialNumber string    `json:"serial_number"`
	RevokedAt    time.Time `json:"revoked_at"`
	Reason       string    `json:"reason"`
}

type CRLDto struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	TotalRevoked int           `json:"total_revoked"`
	Entries      []CRLEntryDto `json:"entries"`
	Checksum     string        `json:"checksum"`
}

type EnqueueRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	ChangeType string `json:"change_type"`
}

type BurstQueueStatusDto struct {
	QueuedEntries            int        `json:"queued_entries"`
	OldestEntryAt            *time.Time `json:"oldest_entry_at,omitempty"`
	RealtimeThresholdSeconds int        `json:"realtime_threshold_seconds"`
}

type SyncEntryDto struct {
	EntityType string    `json:"entity_type"`
	EntityRef  string    `json:"entity_ref"`
	ChangeType string    `json:"change_type"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// SyncPackageDto is the cleartext package shape. Entries are present only for
// unencrypted package types.
type SyncPackageDto struct {
	PackageID   uuid.UUID      `json:"package_id"`
	PackageType string         `json:"package_type"`
	EntryCount  int            `json:"entry_count"`
	Checksum    string         `json:"checksum"`
	CreatedAt   time.Time      `json:"created_at"`
	Entries     []SyncEntryDto `json:"entries,omitempty"`
}

// EncryptedSyncPackageDto deliberately omits the ciphertext; the payload is
// written to the export directory and never echoed back.
type EncryptedSyncPackageDto struct {
	PackageID        uuid.UUID `json:"package_id"`
	Algorithm        string    `json:"algorithm"`
	KeyID            string    `json:"key_id"`
	OriginalChecksum string    `json:"original_checksum"`
	EncryptedAt      time.Time `json:"encrypted_at"`
	EntryCount       int       `json:"entry_count"`
}

type SyncStatisticsDto struct {
	TotalSyncPackages    int        `json:"total_sync_packages"`
	RealtimeBurstCount   int        `json:"realtime_burst_count"`
	EnrollmentBatchCount int        `json:"enrollment_batch_count"`
	CRLPackageCount      int        `json:"crl_package_count"`
	TotalEntriesSynced   int        `json:"total_entries_synced"`
	PendingBurstEntries  int        `json:"pending_burst_entries"`
	LastSyncAt           *time.Time `json:"last_sync_at,omitempty"`
}

type ErrorDto struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
