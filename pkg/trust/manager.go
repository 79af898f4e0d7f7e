// Package trust owns the registration lifecycle of external devices and the
// certificate revocation list. Transitions are PENDING -> {APPROVED,
// REJECTED} and APPROVED -> REVOKED; REJECTED and REVOKED are terminal.
package trust

//go:generate go run github.com/golang/mock/mockgen -destination=manager_mock.go -package=trust github.com/oakridge-sis/secure-sync-server/pkg/trust Manager

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/sethvargo/go-diceware/diceware"

	"github.com/oakridge-sis/secure-sync-server/pkg/crypto"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/repository"
	"github.com/oakridge-sis/secure-sync-server/pkg/domain"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
)

type Manager interface {
	RegisterDevice(req dto.DeviceRegistrationRequest) (*models.RegisteredDevice, error)
	GetPendingRegistrations() ([]models.RegisteredDevice, error)
	ApproveRegistration(deviceID uuid.UUID, approvedBy string) (*dto.CertificateInstallationDto, error)
	RejectRegistration(deviceID uuid.UUID, rejectedBy, reason string) error
	RevokeCertificate(deviceID uuid.UUID, revokedBy, reason string) error
	GetCertificateRevocationList() (*dto.CRLDto, error)
}

const (
	// maxApprovedDevicesPerAccount caps how many devices a single account can
	// hold certificates for at once.
	maxApprovedDevicesPerAccount = 5
	certificateValidity          = 2 * 365 * 24 * time.Hour
	confirmationCodeWords        = 6
)

var (
	macPattern         = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)
	fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

type ManagerImpl struct {
	Injector *do.Injector
	Now      func() time.Time

	// MacPrefixes, when non-empty, restricts registration to whitelisted
	// hardware vendors.
	MacPrefixes []string

	mu           sync.Mutex
	accountLocks map[uuid.UUID]*sync.Mutex
}

func NewManagerService(i *do.Injector) (Manager, error) {
	var prefixes []string
	if raw := os.Getenv("WHITELISTED_MAC_PREFIXES"); raw != "" {
		prefixes = lo.Map(strings.Split(raw, ","), func(p string, _ int) string {
			return strings.ToUpper(strings.TrimSpace(p))
		})
	}
	return &ManagerImpl{
		Injector:     i,
		Now:          time.Now,
		MacPrefixes:  prefixes,
		accountLocks: make(map[uuid.UUID]*sync.Mutex),
	}, nil
}

// lockAccount serializes approvals per account so the device limit holds
// under concurrent approvals.
func (m *ManagerImpl) lockAccount(accountID uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accountLocks == nil {
		m.accountLocks = make(map[uuid.UUID]*sync.Mutex)
	}
	lock, ok := m.accountLocks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		m.accountLocks[accountID] = lock
	}
	return lock
}

func (m *ManagerImpl) RegisterDevice(req dto.DeviceRegistrationRequest) (*models.RegisteredDevice, error) {
	if req.AccountID == uuid.Nil {
		return nil, domain.Validation("account id is required")
	}
	if req.Name == "" {
		return nil, domain.Validation("device name is required")
	}
	mac := strings.ToUpper(req.MacAddress)
	if !macPattern.MatchString(mac) {
		return nil, domain.Validation("malformed MAC address %q", req.MacAddress)
	}
	if len(m.MacPrefixes) > 0 {
		whitelisted := lo.SomeBy(m.MacPrefixes, func(prefix string) bool {
			return strings.HasPrefix(mac, prefix)
		})
		if !whitelisted {
			return nil, domain.Validation("MAC address %s is not on the hardware whitelist", mac)
		}
	}
	if !fingerprintPattern.MatchString(req.Fingerprint) {
		return nil, domain.Validation("device fingerprint must be a 64-char hex SHA-256 digest")
	}
	deviceRepo := do.MustInvoke[repository.DeviceRepository](m.Injector)
	device, err := deviceRepo.CreateDevice(&models.RegisteredDevice{
		AccountID:   req.AccountID,
		Name:        req.Name,
		MacAddress:  mac,
		Fingerprint: req.Fingerprint,
		RequestedAt: m.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDeviceAlreadyRegistered) {
			return nil, domain.Conflict("device with this fingerprint is already registered")
		}
		return nil, err
	}
	log.Info().
		Str("device_id", device.ID.String()).
		Str("account_id", device.AccountID.String()).
		Msg("device registration received")
	return device, nil
}

func (m *ManagerImpl) GetPendingRegistrations() ([]models.RegisteredDevice, error) {
	deviceRepo := do.MustInvoke[repository.DeviceRepository](m.Injector)
	return deviceRepo.GetDevicesByStatus(models.DeviceStatusPending)
}

func (m *ManagerImpl) ApproveRegistration(deviceID uuid.UUID, approvedBy string) (*dto.CertificateInstallationDto, error) {
	deviceRepo := do.MustInvoke[repository.DeviceRepository](m.Injector)
	device, err := deviceRepo.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, domain.NotFound("device %s not found", deviceID)
	}
	if device.Status != models.DeviceStatusPending {
		return nil, domain.Conflict("device %s is %s, only PENDING devices can be approved", deviceID, device.Status)
	}

	lock := m.lockAccount(device.AccountID)
	lock.Lock()
	defer lock.Unlock()

	installation, err := m.approveLocked(deviceRepo, device, approvedBy)
	m.audit("DEVICE_APPROVAL", approvedBy, deviceID.String(), "", err)
	return installation, err
}

func (m *ManagerImpl) approveLocked(deviceRepo repository.DeviceRepository, device *models.RegisteredDevice, approvedBy string) (*dto.CertificateInstallationDto, error) {
	txService := do.MustInvoke[query.TransactionService](m.Injector)
	tx, err := txService.StartTx(pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer query.RollbackFunc(txService, tx, &err)
	var approved int
	approved, err = deviceRepo.CountApprovedForAccountTx(device.AccountID, tx)
	if err != nil {
		return nil, err
	}
	if approved >= maxApprovedDevicesPerAccount {
		err = domain.Conflict("account %s already has %d approved devices", device.AccountID, maxApprovedDevicesPerAccount)
		return nil, err
	}
	ca := do.MustInvoke[crypto.CertificateAuthority](m.Injector)
	var cert *crypto.IssuedCertificate
	cert, err = ca.IssueCertificate("device:"+device.ID.String(), certificateValidity)
	if err != nil {
		err = domain.Crypto(err, "issuing certificate for device %s", device.ID)
		return nil, err
	}
	var updated *models.RegisteredDevice
	updated, err = deviceRepo.ApproveDeviceTx(device.ID, cert.SerialNumber, cert.NotAfter, approvedBy, tx)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		err = domain.Conflict("device %s left PENDING during approval", device.ID)
		return nil, err
	}
	if err = txService.Commit(tx); err != nil {
		return nil, err
	}

	words, dwErr := diceware.Generate(confirmationCodeWords)
	code := ""
	if dwErr == nil {
		code = strings.Join(words, "-")
	}
	return &dto.CertificateInstallationDto{
		DeviceID:         updated.ID,
		SerialNumber:     cert.SerialNumber,
		ExpiresAt:        cert.NotAfter,
		CertificatePEM:   string(cert.CertificatePEM),
		ConfirmationCode: code,
		Instructions: []string{
			"Copy the certificate PEM onto the device over the attended transfer channel.",
			"Install it into the device trust store alongside the district CA chain.",
			fmt.Sprintf("Read the confirmation code to the approving operator: %s", code),
			fmt.Sprintf("The certificate expires %s; re-register before expiry.", cert.NotAfter.Format(time.RFC3339)),
		},
	}, nil
}

func (m *ManagerImpl) RejectRegistration(deviceID uuid.UUID, rejectedBy, reason string) error {
	deviceRepo := do.MustInvoke[repository.DeviceRepository](m.Injector)
	device, err := deviceRepo.GetDevice(deviceID)
	if err != nil {
		return err
	}
	if device == nil {
		return domain.NotFound("device %s not found", deviceID)
	}
	if device.Status != models.DeviceStatusPending {
		return domain.Conflict("device %s is %s, only PENDING devices can be rejected", deviceID, device.Status)
	}
	updated, err := deviceRepo.RejectDevice(deviceID, rejectedBy, reason)
	if err == nil && updated == nil {
		err = domain.Conflict("device %s left PENDING during rejection", deviceID)
	}
	m.audit("DEVICE_REJECTION", rejectedBy, deviceID.String(), reason, err)
	return err
}

func (m *ManagerImpl) RevokeCertificate(deviceID uuid.UUID, revokedBy, reason string) error {
	deviceRepo := do.MustInvoke[repository.DeviceRepository](m.Injector)
	device, err := deviceRepo.GetDevice(deviceID)
	if err != nil {
		return err
	}
	if device == nil {
		err = domain.NotFound("device %s not found", deviceID)
		m.audit("CERTIFICATE_REVOCATION", revokedBy, deviceID.String(), reason, err)
		return err
	}
	if device.Status != models.DeviceStatusApproved {
		err = domain.Conflict("device %s is %s, only APPROVED devices can be revoked", deviceID, device.Status)
		m.audit("CERTIFICATE_REVOCATION", revokedBy, deviceID.String(), reason, err)
		return err
	}
	updated, err := deviceRepo.RevokeDevice(deviceID, revokedBy, reason)
	if err == nil && updated == nil {
		err = domain.Conflict("device %s left APPROVED during revocation", deviceID)
	}
	m.audit("CERTIFICATE_REVOCATION", revokedBy, deviceID.String(), reason, err)
	return err
}

func (m *ManagerImpl) GetCertificateRevocationList() (*dto.CRLDto, error) {
	deviceRepo := do.MustInvoke[repository.DeviceRepository](m.Injector)
	revoked, err := deviceRepo.GetDevicesByStatus(models.DeviceStatusRevoked)
	m.audit("CRL_GENERATION", "system", "crl", "", err)
	if err != nil {
		return nil, err
	}
	entries := lo.FilterMap(revoked, func(d models.RegisteredDevice, _ int) (dto.CRLEntryDto, bool) {
		if d.CertificateSerial == nil {
			return dto.CRLEntryDto{}, false
		}
		entry := dto.CRLEntryDto{SerialNumber: *d.CertificateSerial, Reason: "unspecified"}
		if d.StatusReason != nil {
			entry.Reason = *d.StatusReason
		}
		if d.StatusChangedAt != nil {
			entry.RevokedAt = *d.StatusChangedAt
		}
		return entry, true
	})
	// Canonical order makes the checksum deterministic for a given revocation set.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SerialNumber < entries[j].SerialNumber
	})
	checksum, err := crypto.Checksum(entries)
	if err != nil {
		return nil, domain.Crypto(err, "computing CRL checksum")
	}
	return &dto.CRLDto{
		GeneratedAt:  m.Now(),
		TotalRevoked: len(entries),
		Entries:      entries,
		Checksum:     checksum,
	}, nil
}

func (m *ManagerImpl) audit(action, actor, subject, detail string, opErr error) {
	event := log.Info()
	if opErr != nil {
		event = log.Warn().Err(opErr)
	}
	event.Str("audit", strings.ToLower(action)).Str("subject", subject).Msg(action)
	auditRepo := do.MustInvoke[repository.AuditRepository](m.Injector)
	if err := auditRepo.RecordEvent(&models.AuditEvent{
		Action:    action,
		Actor:     actor,
		Subject:   subject,
		Detail:    detail,
		Success:   opErr == nil,
		CreatedAt: m.Now(),
	}); err != nil {
		log.Err(err).Msg("failed to persist audit event")
	}
}
