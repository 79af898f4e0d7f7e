package repository

//go:generate go run github.com/golang/mock/mockgen -destination=device_mock.go -package=repository github.com/oakridge-sis/secure-sync-server/pkg/database/repository DeviceRepository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
)

var ErrDeviceAlreadyRegistered = errors.New("device with this fingerprint already registered")

type DeviceRepository interface {
	GetDevice(id uuid.UUID) (*models.RegisteredDevice, error)
	GetDevicesByStatus(status models.DeviceStatus) ([]models.RegisteredDevice, error)
	CreateDevice(device *models.RegisteredDevice) (*models.RegisteredDevice, error)
	CountApprovedForAccountTx(accountID uuid.UUID, tx pgx.Tx) (int, error)
	ApproveDeviceTx(id uuid.UUID, serial string, certExpiresAt time.Time, approvedBy string, tx pgx.Tx) (*models.RegisteredDevice, error)
	RejectDevice(id uuid.UUID, rejectedBy, reason string) (*models.RegisteredDevice, error)
	RevokeDevice(id uuid.UUID, revokedBy, reason string) (*models.RegisteredDevice, error)
}

type DeviceRepo struct {
	Injector *do.Injector
}

func (repo *DeviceRepo) GetDevice(id uuid.UUID) (*models.RegisteredDevice, error) {
	q := do.MustInvoke[query.QueryService[models.RegisteredDevice]](repo.Injector)
	return q.QueryOne("select * from registered_devices where id = $1", id)
}

func (repo *DeviceRepo) GetDevicesByStatus(status models.DeviceStatus) ([]models.RegisteredDevice, error) {
	q := do.MustInvoke[query.QueryService[models.RegisteredDevice]](repo.Injector)
	return q.Query("select * from registered_devices where status = $1 order by requested_at", status)
}

func (repo *DeviceRepo) CreateDevice(device *models.RegisteredDevice) (*models.RegisteredDevice, error) {
	q := do.MustInvoke[query.QueryService[models.RegisteredDevice]](repo.Injector)
	existing, err := q.QueryOne("select * from registered_devices where fingerprint = $1 and status in ($2, $3)",
		device.Fingerprint, models.DeviceStatusPending, models.DeviceStatusApproved)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDeviceAlreadyRegistered
	}
	return q.QueryOne(
		"insert into registered_devices (account_id, name, mac_address, fingerprint, status, requested_at) values ($1, $2, $3, $4, $5, $6) returning *",
		device.AccountID, device.Name, device.MacAddress, device.Fingerprint, models.DeviceStatusPending, device.RequestedAt,
	)
}

// CountApprovedForAccountTx takes row locks on the account's approved devices
// so that two concurrent approvals cannot both pass the per-account limit.
func (repo *DeviceRepo) CountApprovedForAccountTx(accountID uuid.UUID, tx pgx.Tx) (int, error) {
	q := do.MustInvoke[query.QueryServiceTx[models.RegisteredDevice]](repo.Injector)
	devices, err := q.Query(tx, "select * from registered_devices where account_id = $1 and status = $2 for update",
		accountID, models.DeviceStatusApproved)
	if err != nil {
		return 0, err
	}
	return len(devices), nil
}

func (repo *DeviceRepo) ApproveDeviceTx(id uuid.UUID, serial string, certExpiresAt time.Time, approvedBy string, tx pgx.Tx) (*models.RegisteredDevice, error) {
	q := do.MustInvoke[query.QueryServiceTx[models.RegisteredDevice]](repo.Injector)
	return q.QueryOne(tx,
		"update registered_devices set status = $2, certificate_serial = $3, certificate_expires_at = $4, status_changed_by = $5, status_changed_at = now() where id = $1 and status = $6 returning *",
		id, models.DeviceStatusApproved, serial, certExpiresAt, approvedBy, models.DeviceStatusPending,
	)
}

func (repo *DeviceRepo) RejectDevice(id uuid.UUID, rejectedBy, reason string) (*models.RegisteredDevice, error) {
	q := do.MustInvoke[query.QueryService[models.RegisteredDevice]](repo.Injector)
	return q.QueryOne(
		"update registered_devices set status = $2, status_changed_by = $3, status_reason = $4, status_changed_at = now() where id = $1 and status = $5 returning *",
		id, models.DeviceStatusRejected, rejectedBy, reason, models.DeviceStatusPending,
	)
}

func (repo *DeviceRepo) RevokeDevice(id uuid.UUID, revokedBy, reason string) (*models.RegisteredDevice, error) {
	q := do.MustInvoke[query.QueryService[models.RegisteredDevice]](repo.Injector)
	return q.QueryOne(
		"update registered_devices set status = $2, status_changed_by = $3, status_reason = $4, status_changed_at = now() where id = $1 and status = $5 returning *",
		id, models.DeviceStatusRevoked, revokedBy, reason, models.DeviceStatusApproved,
	)
}
