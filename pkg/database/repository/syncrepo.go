package repository

//go:generate go run github.com/golang/mock/mockgen -destination=syncrepo_mock.go -package=repository github.com/oakridge-sis/secure-sync-server/pkg/database/repository SyncRepository

import (
	"github.com/jackc/pgx/v5"
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
)

type SyncRepository interface {
	CreateBatchRecord(record *models.SyncBatchRecord) (*models.SyncBatchRecord, error)
	CreateBatchRecordTx(record *models.SyncBatchRecord, tx pgx.Tx) (*models.SyncBatchRecord, error)
	GetRecentBatchRecords(limit int) ([]models.SyncBatchRecord, error)
	GetStats() (*models.SyncStats, error)
	GetEnrollmentChanges() ([]models.EnrollmentChange, error)
	ClearEnrollmentChangesTx(tx pgx.Tx) error
}

type SyncRepo struct {
	Injector *do.Injector
}

func (repo *SyncRepo) CreateBatchRecord(record *models.SyncBatchRecord) (*models.SyncBatchRecord, error) {
	q := do.MustInvoke[query.QueryService[models.SyncBatchRecord]](repo.Injector)
	return q.QueryOne(
		"insert into sync_batch_records (id, package_type, entry_count, checksum, encrypted, key_id, created_at) values ($1, $2, $3, $4, $5, $6, $7) returning *",
		record.ID, record.PackageType, record.EntryCount, record.Checksum, record.Encrypted, record.KeyID, record.CreatedAt,
	)
}

func (repo *SyncRepo) CreateBatchRecordTx(record *models.SyncBatchRecord, tx pgx.Tx) (*models.SyncBatchRecord, error) {
	q := do.MustInvoke[query.QueryServiceTx[models.SyncBatchRecord]](repo.Injector)
	return q.QueryOne(tx,
		"insert into sync_batch_records (id, package_type, entry_count, checksum, encrypted, key_id, created_at) values ($1, $2, $3, $4, $5, $6, $7) returning *",
		record.ID, record.PackageType, record.EntryCount, record.Checksum, record.Encrypted, record.KeyID, record.CreatedAt,
	)
}

func (repo *SyncRepo) GetRecentBatchRecords(limit int) ([]models.SyncBatchRecord, error) {
	q := do.MustInvoke[query.QueryService[models.SyncBatchRecord]](repo.Injector)
	return q.Query("select * from sync_batch_records order by created_at desc limit $1", limit)
}

func (repo *SyncRepo) GetStats() (*models.SyncStats, error) {
	q := do.MustInvoke[query.QueryService[models.SyncStats]](repo.Injector)
	stats, err := q.QueryOne(`select
		count(*) as total_packages,
		count(*) filter (where package_type = 'REALTIME_BURST') as realtime_burst_count,
		count(*) filter (where package_type = 'ENROLLMENT_BATCH') as enrollment_batch_count,
		count(*) filter (where package_type = 'CRL') as crl_count,
		coalesce(sum(entry_count), 0) as total_entries,
		max(created_at) as last_sync_at
		from sync_batch_records`)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &models.SyncStats{}, nil
	}
	return stats, nil
}

func (repo *SyncRepo) GetEnrollmentChanges() ([]models.EnrollmentChange, error) {
	q := do.MustInvoke[query.QueryService[models.EnrollmentChange]](repo.Injector)
	return q.Query("select * from enrollment_changes order by recorded_at")
}

func (repo *SyncRepo) ClearEnrollmentChangesTx(tx pgx.Tx) error {
	q := do.MustInvoke[query.QueryServiceTx[models.EnrollmentChange]](repo.Injector)
	return q.Insert(tx, "delete from enrollment_changes")
}
