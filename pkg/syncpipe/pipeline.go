// Package syncpipe assembles checksummed export packages from tokenized
// change events. Packages are written to the export directory for attended
// transfer across the air gap; nothing in this package ever returns
// ciphertext or a raw student identity to a caller.
package syncpipe

//go:generate go run github.com/golang/mock/mockgen -destination=pipeline_mock.go -package=syncpipe github.com/oakridge-sis/secure-sync-server/pkg/syncpipe Pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/oakridge-sis/secure-sync-server/pkg/crypto"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/repository"
	"github.com/oakridge-sis/secure-sync-server/pkg/domain"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
	"github.com/oakridge-sis/secure-sync-server/pkg/tokens"
	"github.com/oakridge-sis/secure-sync-server/pkg/trust"
)

type Pipeline interface {
	Enqueue(entityType, entityID, changeType string) error
	GetBurstQueueStatus() (*dto.BurstQueueStatusDto, error)
	ProcessBurstQueue() (*dto.SyncPackageDto, error)
	GenerateEnrollmentBatch() (*dto.EncryptedSyncPackageDto, error)
	GenerateCRLSyncPackage() (*dto.SyncPackageDto, error)
	GetSyncStatistics() (*dto.SyncStatisticsDto, error)
	GetSyncHistory(limit int) ([]models.SyncBatchRecord, error)
}

const defaultRealtimeThresholdSeconds = 60

// entityTypeStudent marks entries whose reference must be tokenized before
// export.
const entityTypeStudent = "student"

type PipelineImpl struct {
	Injector          *do.Injector
	Queue             *BurstQueue
	ExportDir         string
	RealtimeThreshold time.Duration
	Now               func() time.Time
}

func NewPipelineService(i *do.Injector) (Pipeline, error) {
	exportDir := os.Getenv("EXPORT_DIR")
	if exportDir == "" {
		exportDir = "export"
	}
	if err := os.MkdirAll(exportDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	threshold := defaultRealtimeThresholdSeconds
	if raw := os.Getenv("REALTIME_THRESHOLD_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("REALTIME_THRESHOLD_SECONDS is not an integer: %w", err)
		}
		threshold = parsed
	}
	return &PipelineImpl{
		Injector:          i,
		Queue:             NewBurstQueue(),
		ExportDir:         exportDir,
		RealtimeThreshold: time.Duration(threshold) * time.Second,
		Now:               time.Now,
	}, nil
}

func (p *PipelineImpl) Enqueue(entityType, entityID, changeType string) error {
	if entityType == "" || entityID == "" || changeType == "" {
		return domain.Validation("entity type, entity id and change type are all required")
	}
	p.Queue.Enqueue(models.BurstQueueEntry{
		EntityType: entityType,
		EntityRef:  entityID,
		ChangeType: changeType,
		EnqueuedAt: p.Now(),
	})
	return nil
}

func (p *PipelineImpl) GetBurstQueueStatus() (*dto.BurstQueueStatusDto, error) {
	return &dto.BurstQueueStatusDto{
		QueuedEntries:            p.Queue.Len(),
		OldestEntryAt:            p.Queue.OldestEnqueuedAt(),
		RealtimeThresholdSeconds: int(p.RealtimeThreshold / time.Second),
	}, nil
}

// ProcessBurstQueue drains the queue in one atomic step and packages the
// snapshot. On any failure the snapshot is restored to the head of the queue
// and no history record is written.
func (p *PipelineImpl) ProcessBurstQueue() (*dto.SyncPackageDto, error) {
	entries := p.Queue.Drain()
	pkg, err := p.packageBurst(entries)
	if err != nil {
		p.Queue.Restore(entries)
		return nil, err
	}
	return pkg, nil
}

func (p *PipelineImpl) packageBurst(entries []models.BurstQueueEntry) (*dto.SyncPackageDto, error) {
	exportEntries, err := p.tokenizeEntries(entries)
	if err != nil {
		return nil, err
	}
	checksum, err := crypto.Checksum(exportEntries)
	if err != nil {
		return nil, domain.Crypto(err, "computing burst package checksum")
	}
	pkg := &dto.SyncPackageDto{
		PackageID:   uuid.New(),
		PackageType: string(models.PackageTypeRealtimeBurst),
		EntryCount:  len(exportEntries),
		Checksum:    checksum,
		CreatedAt:   p.Now(),
		Entries:     exportEntries,
	}
	if err := p.writePackageFile(pkg.PackageID, "json", pkg); err != nil {
		return nil, err
	}
	syncRepo := do.MustInvoke[repository.SyncRepository](p.Injector)
	if _, err := syncRepo.CreateBatchRecord(&models.SyncBatchRecord{
		ID:          pkg.PackageID,
		PackageType: models.PackageTypeRealtimeBurst,
		EntryCount:  pkg.EntryCount,
		Checksum:    pkg.Checksum,
		CreatedAt:   pkg.CreatedAt,
	}); err != nil {
		// The restored entries will be re-packaged on the next drain; an
		// orphaned file would duplicate them in the transfer directory.
		p.removeExportFile(pkg.PackageID, "json")
		return nil, err
	}
	log.Info().
		Str("package_id", pkg.PackageID.String()).
		Int("entries", pkg.EntryCount).
		Msg("burst package emitted")
	return pkg, nil
}

// tokenizeEntries replaces raw student references with tokens. Entries whose
// reference already looks like a token pass through untouched.
func (p *PipelineImpl) tokenizeEntries(entries []models.BurstQueueEntry) ([]dto.SyncEntryDto, error) {
	engine := do.MustInvoke[tokens.Engine](p.Injector)
	result := make([]dto.SyncEntryDto, 0, len(entries))
	for _, entry := range entries {
		ref := entry.EntityRef
		if entry.EntityType == entityTypeStudent {
			studentID, err := uuid.Parse(ref)
			if err == nil {
				token, err := engine.GenerateToken(studentID)
				if err != nil {
					return nil, fmt.Errorf("tokenizing student reference: %w", err)
				}
				ref = token.TokenValue
			}
		}
		result = append(result, dto.SyncEntryDto{
			EntityType: entry.EntityType,
			EntityRef:  ref,
			ChangeType: entry.ChangeType,
			EnqueuedAt: entry.EnqueuedAt,
		})
	}
	return result, nil
}

// GenerateEnrollmentBatch packages staged enrollment changes as an encrypted
// batch. The ciphertext goes to the export directory only; history records
// metadata, never payload. Staged changes are cleared in the same transaction
// that records the batch, so a failure leaves them staged.
func (p *PipelineImpl) GenerateEnrollmentBatch() (*dto.EncryptedSyncPackageDto, error) {
	syncRepo := do.MustInvoke[repository.SyncRepository](p.Injector)
	engine := do.MustInvoke[tokens.Engine](p.Injector)
	changes, err := syncRepo.GetEnrollmentChanges()
	if err != nil {
		p.auditBatch(uuid.Nil, err)
		return nil, err
	}
	entries := make([]dto.SyncEntryDto, 0, len(changes))
	for _, change := range changes {
		token, err := engine.GenerateToken(change.StudentID)
		if err != nil {
			p.auditBatch(uuid.Nil, err)
			return nil, fmt.Errorf("tokenizing enrollment change: %w", err)
		}
		entries = append(entries, dto.SyncEntryDto{
			EntityType: entityTypeStudent,
			EntityRef:  token.TokenValue,
			ChangeType: change.ChangeType,
			EnqueuedAt: change.RecordedAt,
		})
	}
	packageID := uuid.New()
	now := p.Now()
	cleartext := dto.SyncPackageDto{
		PackageID:   packageID,
		PackageType: string(models.PackageTypeEnrollmentBatch),
		EntryCount:  len(entries),
		CreatedAt:   now,
		Entries:     entries,
	}
	serialized, err := json.Marshal(cleartext)
	if err != nil {
		err = domain.Crypto(err, "serializing enrollment batch")
		p.auditBatch(packageID, err)
		return nil, err
	}
	checksum := crypto.ChecksumBytes(serialized)
	cipher := do.MustInvoke[crypto.Cipher](p.Injector)
	payload, err := cipher.Encrypt(serialized)
	if err != nil {
		err = domain.Crypto(err, "encrypting enrollment batch")
		p.auditBatch(packageID, err)
		return nil, err
	}
	if err := p.writeCiphertextFile(packageID, payload.Ciphertext); err != nil {
		p.auditBatch(packageID, err)
		return nil, err
	}
	txService := do.MustInvoke[query.TransactionService](p.Injector)
	tx, err := txService.StartTx(pgx.TxOptions{})
	if err != nil {
		p.auditBatch(packageID, err)
		return nil, err
	}
	defer query.RollbackFunc(txService, tx, &err)
	keyID := payload.KeyID
	if _, err = syncRepo.CreateBatchRecordTx(&models.SyncBatchRecord{
		ID:          packageID,
		PackageType: models.PackageTypeEnrollmentBatch,
		EntryCount:  len(entries),
		Checksum:    checksum,
		Encrypted:   true,
		KeyID:       &keyID,
		CreatedAt:   now,
	}, tx); err == nil {
		err = syncRepo.ClearEnrollmentChangesTx(tx)
	}
	if err == nil {
		err = txService.Commit(tx)
	}
	if err != nil {
		p.removeExportFile(packageID, "enc")
		p.auditBatch(packageID, err)
		return nil, err
	}
	p.auditBatch(packageID, nil)
	return &dto.EncryptedSyncPackageDto{
		PackageID:        packageID,
		Algorithm:        payload.Algorithm,
		KeyID:            payload.KeyID,
		OriginalChecksum: checksum,
		EncryptedAt:      now,
		EntryCount:       len(entries),
	}, nil
}

func (p *PipelineImpl) GenerateCRLSyncPackage() (*dto.SyncPackageDto, error) {
	manager := do.MustInvoke[trust.Manager](p.Injector)
	crl, err := manager.GetCertificateRevocationList()
	if err != nil {
		return nil, err
	}
	entries := lo.Map(crl.Entries, func(e dto.CRLEntryDto, _ int) dto.SyncEntryDto {
		return dto.SyncEntryDto{
			EntityType: "certificate",
			EntityRef:  e.SerialNumber,
			ChangeType: "REVOKED",
			EnqueuedAt: e.RevokedAt,
		}
	})
	pkg := &dto.SyncPackageDto{
		PackageID:   uuid.New(),
		PackageType: string(models.PackageTypeCRL),
		EntryCount:  crl.TotalRevoked,
		Checksum:    crl.Checksum,
		CreatedAt:   p.Now(),
		Entries:     entries,
	}
	if err := p.writePackageFile(pkg.PackageID, "json", crl); err != nil {
		return nil, err
	}
	syncRepo := do.MustInvoke[repository.SyncRepository](p.Injector)
	if _, err := syncRepo.CreateBatchRecord(&models.SyncBatchRecord{
		ID:          pkg.PackageID,
		PackageType: models.PackageTypeCRL,
		EntryCount:  pkg.EntryCount,
		Checksum:    pkg.Checksum,
		CreatedAt:   pkg.CreatedAt,
	}); err != nil {
		p.removeExportFile(pkg.PackageID, "json")
		return nil, err
	}
	log.Info().
		Str("audit", "crl_package").
		Str("package_id", pkg.PackageID.String()).
		Int("revoked", pkg.EntryCount).
		Msg("CRL package emitted")
	return pkg, nil
}

func (p *PipelineImpl) GetSyncStatistics() (*dto.SyncStatisticsDto, error) {
	syncRepo := do.MustInvoke[repository.SyncRepository](p.Injector)
	stats, err := syncRepo.GetStats()
	if err != nil {
		return nil, err
	}
	return &dto.SyncStatisticsDto{
		TotalSyncPackages:    stats.TotalPackages,
		RealtimeBurstCount:   stats.RealtimeBurstCount,
		EnrollmentBatchCount: stats.EnrollmentBatchCount,
		CRLPackageCount:      stats.CRLCount,
		TotalEntriesSynced:   stats.TotalEntries,
		PendingBurstEntries:  p.Queue.Len(),
		LastSyncAt:           stats.LastSyncAt,
	}, nil
}

func (p *PipelineImpl) GetSyncHistory(limit int) ([]models.SyncBatchRecord, error) {
	if limit <= 0 {
		return nil, domain.Validation("history limit must be positive, got %d", limit)
	}
	syncRepo := do.MustInvoke[repository.SyncRepository](p.Injector)
	return syncRepo.GetRecentBatchRecords(limit)
}

func (p *PipelineImpl) writePackageFile(packageID uuid.UUID, ext string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.Crypto(err, "serializing package %s", packageID)
	}
	path := filepath.Join(p.ExportDir, fmt.Sprintf("%s.%s", packageID, ext))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing package file: %w", err)
	}
	return nil
}

func (p *PipelineImpl) writeCiphertextFile(packageID uuid.UUID, ciphertext []byte) error {
	path := filepath.Join(p.ExportDir, fmt.Sprintf("%s.enc", packageID))
	if err := os.WriteFile(path, ciphertext, 0o600); err != nil {
		return fmt.Errorf("writing ciphertext file: %w", err)
	}
	return nil
}

func (p *PipelineImpl) removeExportFile(packageID uuid.UUID, ext string) {
	path := filepath.Join(p.ExportDir, fmt.Sprintf("%s.%s", packageID, ext))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Err(err).Str("path", path).Msg("failed to remove export file after aborted packaging")
	}
}

func (p *PipelineImpl) auditBatch(packageID uuid.UUID, opErr error) {
	event := log.Info()
	if opErr != nil {
		event = log.Warn().Err(opErr)
	}
	event.Str("audit", "enrollment_batch").Str("package_id", packageID.String()).Msg("enrollment batch generation attempted")
	auditRepo := do.MustInvoke[repository.AuditRepository](p.Injector)
	if err := auditRepo.RecordEvent(&models.AuditEvent{
		Action:    "ENROLLMENT_BATCH",
		Actor:     "system",
		Subject:   packageID.String(),
		Detail:    "encrypted enrollment batch generation",
		Success:   opErr == nil,
		CreatedAt: p.Now(),
	}); err != nil {
		log.Err(err).Msg("failed to persist batch audit event")
	}
}
