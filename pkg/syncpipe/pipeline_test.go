package syncpipe

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"

	"github.com/oakridge-sis/secure-sync-server/pkg/crypto"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/repository"
	"github.com/oakridge-sis/secure-sync-server/pkg/domain"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
	"github.com/oakridge-sis/secure-sync-server/pkg/tokens"
	"github.com/oakridge-sis/secure-sync-server/pkg/trust"
)

var testSyncKey = []byte("0123456789abcdef0123456789abcdef")

type pipelineFixture struct {
	pipeline    *PipelineImpl
	injector    *do.Injector
	studentRepo *repository.StudentRepoMock
	syncRepo    *repository.SyncRepoMock
	auditRepo   *repository.AuditRepoMock
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	injector := do.New()
	fixture := &pipelineFixture{
		injector:    injector,
		studentRepo: &repository.StudentRepoMock{},
		syncRepo:    &repository.SyncRepoMock{},
		auditRepo:   &repository.AuditRepoMock{},
	}
	do.Provide(injector, func(i *do.Injector) (repository.StudentRepository, error) {
		return fixture.studentRepo, nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.TokenRepository, error) {
		return &repository.TokenRepoMock{}, nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.SyncRepository, error) {
		return fixture.syncRepo, nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.AuditRepository, error) {
		return fixture.auditRepo, nil
	})
	do.Provide(injector, func(i *do.Injector) (query.TransactionService, error) {
		return &query.TransactionMock{}, nil
	})
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return &tokens.EngineImpl{Injector: injector, Secret: []byte("test-secret"), Now: time.Now}, nil
	})
	do.Provide(injector, func(i *do.Injector) (crypto.Cipher, error) {
		return crypto.NewAesGcmCipher("district-key-1", testSyncKey)
	})
	fixture.pipeline = &PipelineImpl{
		Injector:          injector,
		Queue:             NewBurstQueue(),
		ExportDir:         t.TempDir(),
		RealtimeThreshold: time.Minute,
		Now:               time.Now,
	}
	return fixture
}

func (f *pipelineFixture) addStudent() *models.Student {
	student := models.Student{
		ID:            uuid.New(),
		StudentNumber: "S-000001",
		FirstName:     "Test",
		LastName:      "Student",
		Active:        true,
	}
	f.studentRepo.Students = append(f.studentRepo.Students, student)
	return &student
}

func (f *pipelineFixture) exportFiles(t *testing.T) []string {
	t.Helper()
	dirEntries, err := os.ReadDir(f.pipeline.ExportDir)
	assert.NoError(t, err)
	var names []string
	for _, e := range dirEntries {
		names = append(names, e.Name())
	}
	return names
}

func TestEnqueueValidation(t *testing.T) {
	f := newPipelineFixture(t)

	for _, bad := range [][3]string{
		{"", "id", "UPDATE"},
		{"student", "", "UPDATE"},
		{"student", "id", ""},
	} {
		err := f.pipeline.Enqueue(bad[0], bad[1], bad[2])
		assert.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}
	assert.Zero(t, f.pipeline.Queue.Len())

	assert.NoError(t, f.pipeline.Enqueue("course", "MATH-101", "UPDATE"))
	assert.Equal(t, 1, f.pipeline.Queue.Len())
}

func TestGetBurstQueueStatus(t *testing.T) {
	f := newPipelineFixture(t)

	status, err := f.pipeline.GetBurstQueueStatus()
	assert.NoError(t, err)
	assert.Zero(t, status.QueuedEntries)
	assert.Nil(t, status.OldestEntryAt)
	assert.Equal(t, 60, status.RealtimeThresholdSeconds)

	assert.NoError(t, f.pipeline.Enqueue("course", "MATH-101", "UPDATE"))
	status, err = f.pipeline.GetBurstQueueStatus()
	assert.NoError(t, err)
	assert.Equal(t, 1, status.QueuedEntries)
	assert.NotNil(t, status.OldestEntryAt)
}

func TestProcessBurstQueueEmpty(t *testing.T) {
	f := newPipelineFixture(t)

	pkg, err := f.pipeline.ProcessBurstQueue()
	assert.NoError(t, err)
	assert.Zero(t, pkg.EntryCount)
	assert.Equal(t, string(models.PackageTypeRealtimeBurst), pkg.PackageType)
	assert.NotEmpty(t, pkg.Checksum)
	assert.Len(t, f.syncRepo.Records, 1)
}

func TestProcessBurstQueueTokenizesStudents(t *testing.T) {
	f := newPipelineFixture(t)
	student := f.addStudent()

	assert.NoError(t, f.pipeline.Enqueue("student", student.ID.String(), "UPDATE"))
	assert.NoError(t, f.pipeline.Enqueue("course", "MATH-101", "CREATE"))

	pkg, err := f.pipeline.ProcessBurstQueue()
	assert.NoError(t, err)
	assert.Equal(t, 2, pkg.EntryCount)
	assert.Zero(t, f.pipeline.Queue.Len())

	// The raw student id never appears in the package.
	assert.Regexp(t, `^STU-[0-9A-F]{6}$`, pkg.Entries[0].EntityRef)
	assert.Equal(t, "MATH-101", pkg.Entries[1].EntityRef)

	files := f.exportFiles(t)
	assert.Len(t, files, 1)
	data, err := os.ReadFile(filepath.Join(f.pipeline.ExportDir, files[0]))
	assert.NoError(t, err)
	assert.NotContains(t, string(data), student.ID.String())
	assert.Contains(t, string(data), pkg.Entries[0].EntityRef)

	assert.Len(t, f.syncRepo.Records, 1)
	assert.Equal(t, pkg.Checksum, f.syncRepo.Records[0].Checksum)
	assert.False(t, f.syncRepo.Records[0].Encrypted)
}

func TestProcessBurstQueueFailureRestoresQueue(t *testing.T) {
	f := newPipelineFixture(t)
	f.syncRepo.CreateErr = errors.New("history table unavailable")

	assert.NoError(t, f.pipeline.Enqueue("course", "MATH-101", "UPDATE"))
	assert.NoError(t, f.pipeline.Enqueue("course", "SCI-202", "DELETE"))

	_, err := f.pipeline.ProcessBurstQueue()
	assert.Error(t, err)

	// The drained snapshot is back, in order, and nothing was recorded.
	assert.Equal(t, 2, f.pipeline.Queue.Len())
	restored := f.pipeline.Queue.Drain()
	assert.Equal(t, "MATH-101", restored[0].EntityRef)
	assert.Equal(t, "SCI-202", restored[1].EntityRef)
	assert.Empty(t, f.syncRepo.Records)
	assert.Empty(t, f.exportFiles(t))
}

func TestProcessBurstQueueRetryAfterFailureEmitsOnePackage(t *testing.T) {
	f := newPipelineFixture(t)
	f.syncRepo.CreateErr = errors.New("history table unavailable")

	assert.NoError(t, f.pipeline.Enqueue("course", "MATH-101", "UPDATE"))
	_, err := f.pipeline.ProcessBurstQueue()
	assert.Error(t, err)

	// The restored entries go out exactly once when the retry succeeds.
	f.syncRepo.CreateErr = nil
	pkg, err := f.pipeline.ProcessBurstQueue()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, pkg.EntryCount)
	assert.Len(t, f.syncRepo.Records, 1)

	files := f.exportFiles(t)
	assert.Len(t, files, 1)
	assert.Equal(t, pkg.PackageID.String()+".json", files[0])
}

func decryptPayload(t *testing.T, ciphertext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(testSyncKey)
	assert.NoError(t, err)
	aead, err := gocipher.NewGCM(block)
	assert.NoError(t, err)
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	assert.NoError(t, err)
	return plaintext
}

func TestGenerateEnrollmentBatch(t *testing.T) {
	f := newPipelineFixture(t)
	first := f.addStudent()
	second := f.addStudent()
	f.syncRepo.EnrollmentChanges = []models.EnrollmentChange{
		{ID: uuid.New(), StudentID: first.ID, ChangeType: "ENROLLED", GradeLevel: "09", SchoolCode: "OAK-HS", RecordedAt: time.Now()},
		{ID: uuid.New(), StudentID: second.ID, ChangeType: "WITHDRAWN", GradeLevel: "11", SchoolCode: "OAK-HS", RecordedAt: time.Now()},
	}

	result, err := f.pipeline.GenerateEnrollmentBatch()
	assert.NoError(t, err)
	assert.Equal(t, crypto.AlgorithmAES256GCM, result.Algorithm)
	assert.Equal(t, "district-key-1", result.KeyID)
	assert.Equal(t, 2, result.EntryCount)
	assert.NotEmpty(t, result.OriginalChecksum)

	// Staged changes are consumed by the committed batch.
	assert.Empty(t, f.syncRepo.EnrollmentChanges)

	assert.Len(t, f.syncRepo.Records, 1)
	record := f.syncRepo.Records[0]
	assert.True(t, record.Encrypted)
	assert.Equal(t, "district-key-1", *record.KeyID)
	assert.Equal(t, result.OriginalChecksum, record.Checksum)

	files := f.exportFiles(t)
	assert.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], ".enc"))
	ciphertext, err := os.ReadFile(filepath.Join(f.pipeline.ExportDir, files[0]))
	assert.NoError(t, err)

	// The ciphertext is opaque: no raw ids, no token values.
	assert.NotContains(t, string(ciphertext), first.ID.String())
	assert.NotContains(t, string(ciphertext), "STU-")

	plaintext := decryptPayload(t, ciphertext)
	assert.Equal(t, result.OriginalChecksum, crypto.ChecksumBytes(plaintext))
	var pkg dto.SyncPackageDto
	assert.NoError(t, json.Unmarshal(plaintext, &pkg))
	assert.Equal(t, 2, pkg.EntryCount)
	for _, entry := range pkg.Entries {
		assert.Regexp(t, `^STU-[0-9A-F]{6}$`, entry.EntityRef)
	}

	assert.Len(t, f.auditRepo.Events, 1)
	assert.Equal(t, "ENROLLMENT_BATCH", f.auditRepo.Events[0].Action)
	assert.True(t, f.auditRepo.Events[0].Success)
}

func TestGenerateEnrollmentBatchEmpty(t *testing.T) {
	f := newPipelineFixture(t)

	result, err := f.pipeline.GenerateEnrollmentBatch()
	assert.NoError(t, err)
	assert.Zero(t, result.EntryCount)
	assert.Len(t, f.syncRepo.Records, 1)
}

func TestGenerateEnrollmentBatchFailureLeavesChangesStaged(t *testing.T) {
	f := newPipelineFixture(t)
	student := f.addStudent()
	f.syncRepo.EnrollmentChanges = []models.EnrollmentChange{
		{ID: uuid.New(), StudentID: student.ID, ChangeType: "ENROLLED", RecordedAt: time.Now()},
	}
	f.syncRepo.CreateErr = errors.New("history table unavailable")

	_, err := f.pipeline.GenerateEnrollmentBatch()
	assert.Error(t, err)

	// Nothing committed: staged change survives, no record, export dir clean.
	assert.Len(t, f.syncRepo.EnrollmentChanges, 1)
	assert.Empty(t, f.syncRepo.Records)
	assert.Empty(t, f.exportFiles(t))

	assert.Len(t, f.auditRepo.Events, 1)
	assert.False(t, f.auditRepo.Events[0].Success)
}

func TestGenerateCRLSyncPackage(t *testing.T) {
	f := newPipelineFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	manager := trust.NewMockManager(ctrl)
	do.Provide(f.injector, func(i *do.Injector) (trust.Manager, error) {
		return manager, nil
	})

	revokedAt := time.Now().Add(-time.Hour)
	manager.EXPECT().GetCertificateRevocationList().Return(&dto.CRLDto{
		GeneratedAt:  time.Now(),
		TotalRevoked: 2,
		Entries: []dto.CRLEntryDto{
			{SerialNumber: "0a1b", RevokedAt: revokedAt, Reason: "stolen"},
			{SerialNumber: "2c3d", RevokedAt: revokedAt, Reason: "expired custody"},
		},
		Checksum: "deadbeef",
	}, nil)

	pkg, err := f.pipeline.GenerateCRLSyncPackage()
	assert.NoError(t, err)
	assert.Equal(t, string(models.PackageTypeCRL), pkg.PackageType)
	assert.Equal(t, 2, pkg.EntryCount)
	assert.Equal(t, "deadbeef", pkg.Checksum)
	assert.Equal(t, "0a1b", pkg.Entries[0].EntityRef)
	assert.Equal(t, "REVOKED", pkg.Entries[0].ChangeType)

	assert.Len(t, f.exportFiles(t), 1)
	assert.Len(t, f.syncRepo.Records, 1)
	assert.Equal(t, models.PackageTypeCRL, f.syncRepo.Records[0].PackageType)
}

func TestGenerateCRLSyncPackageFailureLeavesNoFile(t *testing.T) {
	f := newPipelineFixture(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	manager := trust.NewMockManager(ctrl)
	do.Provide(f.injector, func(i *do.Injector) (trust.Manager, error) {
		return manager, nil
	})
	manager.EXPECT().GetCertificateRevocationList().Return(&dto.CRLDto{
		GeneratedAt:  time.Now(),
		TotalRevoked: 1,
		Entries: []dto.CRLEntryDto{
			{SerialNumber: "0a1b", RevokedAt: time.Now(), Reason: "stolen"},
		},
		Checksum: "deadbeef",
	}, nil)
	f.syncRepo.CreateErr = errors.New("history table unavailable")

	_, err := f.pipeline.GenerateCRLSyncPackage()
	assert.Error(t, err)
	assert.Empty(t, f.syncRepo.Records)
	assert.Empty(t, f.exportFiles(t))
}

func TestGetSyncStatistics(t *testing.T) {
	f := newPipelineFixture(t)
	now := time.Now()
	f.syncRepo.Records = []models.SyncBatchRecord{
		{ID: uuid.New(), PackageType: models.PackageTypeRealtimeBurst, EntryCount: 3, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: uuid.New(), PackageType: models.PackageTypeEnrollmentBatch, EntryCount: 10, Encrypted: true, CreatedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), PackageType: models.PackageTypeCRL, EntryCount: 1, CreatedAt: now},
	}
	assert.NoError(t, f.pipeline.Enqueue("course", "MATH-101", "UPDATE"))

	stats, err := f.pipeline.GetSyncStatistics()
	assert.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSyncPackages)
	assert.Equal(t, 1, stats.RealtimeBurstCount)
	assert.Equal(t, 1, stats.EnrollmentBatchCount)
	assert.Equal(t, 1, stats.CRLPackageCount)
	assert.Equal(t, 14, stats.TotalEntriesSynced)
	assert.Equal(t, 1, stats.PendingBurstEntries)
	assert.NotNil(t, stats.LastSyncAt)
	assert.True(t, stats.LastSyncAt.Equal(now))
}

func TestGetSyncHistory(t *testing.T) {
	f := newPipelineFixture(t)
	for i := 0; i < 3; i++ {
		f.syncRepo.Records = append(f.syncRepo.Records, models.SyncBatchRecord{
			ID:          uuid.New(),
			PackageType: models.PackageTypeRealtimeBurst,
			EntryCount:  i,
			CreatedAt:   time.Now(),
		})
	}

	records, err := f.pipeline.GetSyncHistory(2)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	// Most recent first.
	assert.Equal(t, 2, records[0].EntryCount)
	assert.Equal(t, 1, records[1].EntryCount)

	_, err = f.pipeline.GetSyncHistory(0)
	assert.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
