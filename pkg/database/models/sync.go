package models

import (
	"time"

	"github.com/google/uuid"
)

// PackageType is the kind of export bundle emitted by the sync pipeline.
type PackageType string

const (
	PackageTypeRealtimeBurst   PackageType = "REALTIME_BURST"
	PackageTypeEnrollmentBatch PackageType = "ENROLLMENT_BATCH"
	PackageTypeCRL             PackageType = "CRL"
)

// BurstQueueEntry is a single pending change raised by an upstream module.
// The entity reference is either already a token or gets tokenized before it
// is ever written into a package.
type BurstQueueEntry struct {
	EntityType string    `json:"entity_type"`
	EntityRef  string    `json:"entity_ref"`
	ChangeType string    `json:"change_type"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// EnrollmentChange is a staged enrollment-level change awaiting the next
// encrypted batch export. Staged by the enrollment module, cleared when the
// batch that contains it commits.
type EnrollmentChange struct {
	ID         uuid.UUID `json:"id" db:"id"`
	StudentID  uuid.UUID `json:"student_id" db:"student_id"`
	ChangeType string    `json:"change_type" db:"change_type"`
	GradeLevel string    `json:"grade_level" db:"grade_level"`
	SchoolCode string    `json:"school_code" db:"school_code"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// SyncBatchRecord is the persisted metadata of one emitted package. For
// encrypted packages only metadata is recorded, never ciphertext.
type SyncBatchRecord struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	PackageType PackageType `json:"package_type" db:"package_type"`
	EntryCount  int         `json:"entry_count" db:"entry_count"`
	Checksum    string      `json:"checksum" db:"checksum"`
	Encrypted   bool        `json:"encrypted" db:"encrypted"`
	KeyID       *string     `json:"key_id,omitempty" db:"key_id"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// SyncStats is the aggregate view scanned straight out of sync history.
type SyncStats struct {
	TotalPackages        int        `db:"total_packages"`
	RealtimeBurstCount   int        `db:"realtime_burst_count"`
	EnrollmentBatchCount int        `db:"enrollment_batch_count"`
	CRLCount             int        `db:"crl_count"`
	TotalEntries         int        `db:"total_entries"`
	LastSyncAt           *time.Time `db:"last_sync_at"`
}
