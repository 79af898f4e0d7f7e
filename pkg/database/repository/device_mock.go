package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

// DeviceRepoMock is an in-memory implementation of DeviceRepository for testing
type DeviceRepoMock struct {
	mu      sync.Mutex
	Devices []models.RegisteredDevice
}

func (mock *DeviceRepoMock) GetDevice(id uuid.UUID) (*models.RegisteredDevice, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for i := range mock.Devices {
		if mock.Devices[i].ID == id {
			d := mock.Devices[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (mock *DeviceRepoMock) GetDevicesByStatus(status models.DeviceStatus) ([]models.RegisteredDevice, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	var result []models.RegisteredDevice
	for _, d := range mock.Devices {
		if d.Status == status {
			result = append(result, d)
		}
	}
	return result, nil
}

func (mock *DeviceRepoMock) CreateDevice(device *models.RegisteredDevice) (*models.RegisteredDevice, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for _, d := range mock.Devices {
		if d.Fingerprint == device.Fingerprint && (d.Status == models.DeviceStatusPending || d.Status == models.DeviceStatusApproved) {
			return nil, ErrDeviceAlreadyRegistered
		}
	}
	created := *device
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.Status = models.DeviceStatusPending
	if created.RequestedAt.IsZero() {
		created.RequestedAt = time.Now()
	}
	mock.Devices = append(mock.Devices, created)
	return &created, nil
}

func (mock *DeviceRepoMock) CountApprovedForAccountTx(accountID uuid.UUID, tx pgx.Tx) (int, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	count := 0
	for _, d := range mock.Devices {
		if d.AccountID == accountID && d.Status == models.DeviceStatusApproved {
			count++
		}
	}
	return count, nil
}

func (mock *DeviceRepoMock) ApproveDeviceTx(id uuid.UUID, serial string, certExpiresAt time.Time, approvedBy string, tx pgx.Tx) (*models.RegisteredDevice, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for i := range mock.Devices {
		if mock.Devices[i].ID == id && mock.Devices[i].Status == models.DeviceStatusPending {
			now := time.Now()
			mock.Devices[i].Status = models.DeviceStatusApproved
			mock.Devices[i].CertificateSerial = &serial
			mock.Devices[i].CertificateExpiresAt = &certExpiresAt
			mock.Devices[i].StatusChangedBy = &approvedBy
			mock.Devices[i].StatusChangedAt = &now
			d := mock.Devices[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (mock *DeviceRepoMock) RejectDevice(id uuid.UUID, rejectedBy, reason string) (*models.RegisteredDevice, error) {
	return mock.transition(id, models.DeviceStatusPending, models.DeviceStatusRejected, rejectedBy, reason)
}

func (mock *DeviceRepoMock) RevokeDevice(id uuid.UUID, revokedBy, reason string) (*models.RegisteredDevice, error) {
	return mock.transition(id, models.DeviceStatusApproved, models.DeviceStatusRevoked, revokedBy, reason)
}

func (mock *DeviceRepoMock) transition(id uuid.UUID, from, to models.DeviceStatus, by, reason string) (*models.RegisteredDevice, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for i := range mock.Devices {
		if mock.Devices[i].ID == id && mock.Devices[i].Status == from {
			now := time.Now()
			mock.Devices[i].Status = to
			mock.Devices[i].StatusChangedBy = &by
			mock.Devices[i].StatusReason = &reason
			mock.Devices[i].StatusChangedAt = &now
			d := mock.Devices[i]
			return &d, nil
		}
	}
	return nil, nil
}
