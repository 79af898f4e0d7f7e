package repository

import (
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

// SyncRepoMock is an in-memory implementation of SyncRepository for testing
type SyncRepoMock struct {
	mu                sync.Mutex
	Records           []models.SyncBatchRecord
	EnrollmentChanges []models.EnrollmentChange

	// CreateErr, when set, is returned by both record-create methods.
	CreateErr error
}

func (mock *SyncRepoMock) CreateBatchRecord(record *models.SyncBatchRecord) (*models.SyncBatchRecord, error) {
	if mock.CreateErr != nil {
		return nil, mock.CreateErr
	}
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.Records = append(mock.Records, *record)
	return record, nil
}

func (mock *SyncRepoMock) CreateBatchRecordTx(record *models.SyncBatchRecord, tx pgx.Tx) (*models.SyncBatchRecord, error) {
	return mock.CreateBatchRecord(record)
}

func (mock *SyncRepoMock) GetRecentBatchRecords(limit int) ([]models.SyncBatchRecord, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	var result []models.SyncBatchRecord
	for i := len(mock.Records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, mock.Records[i])
	}
	return result, nil
}

func (mock *SyncRepoMock) GetStats() (*models.SyncStats, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	stats := &models.SyncStats{}
	for i := range mock.Records {
		r := mock.Records[i]
		stats.TotalPackages++
		stats.TotalEntries += r.EntryCount
		switch r.PackageType {
		case models.PackageTypeRealtimeBurst:
			stats.RealtimeBurstCount++
		case models.PackageTypeEnrollmentBatch:
			stats.EnrollmentBatchCount++
		case models.PackageTypeCRL:
			stats.CRLCount++
		}
		if stats.LastSyncAt == nil || r.CreatedAt.After(*stats.LastSyncAt) {
			created := r.CreatedAt
			stats.LastSyncAt = &created
		}
	}
	return stats, nil
}

func (mock *SyncRepoMock) GetEnrollmentChanges() ([]models.EnrollmentChange, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]models.EnrollmentChange{}, mock.EnrollmentChanges...), nil
}

func (mock *SyncRepoMock) ClearEnrollmentChangesTx(tx pgx.Tx) error {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.EnrollmentChanges = nil
	return nil
}
