package testutils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/web/middleware/context_keys"
)

func GenerateStudent() *models.Student {
	return &models.Student{
		ID:            uuid.New(),
		StudentNumber: "S-100042",
		FirstName:     "Test",
		LastName:      "Student",
		EnrolledAt:    time.Now().AddDate(-1, 0, 0),
		Active:        true,
	}
}

func GenerateToken(studentID uuid.UUID) *models.StudentToken {
	now := time.Now()
	return &models.StudentToken{
		ID:         uuid.New(),
		StudentID:  studentID,
		TokenValue: "STU-A1B2C3",
		SchoolYear: "2025-2026",
		CreatedAt:  now,
		ExpiresAt:  now.AddDate(1, 0, 0),
		Active:     true,
	}
}

func GenerateDevice(status models.DeviceStatus) *models.RegisteredDevice {
	device := &models.RegisteredDevice{
		ID:          uuid.New(),
		AccountID:   uuid.New(),
		Name:        "front-office-kiosk",
		MacAddress:  "00:1A:2B:3C:4D:5E",
		Fingerprint: Fingerprint("test-device"),
		Status:      status,
		RequestedAt: time.Now(),
	}
	if status == models.DeviceStatusApproved || status == models.DeviceStatusRevoked {
		serial := "1f2e3d4c5b6a"
		expires := time.Now().AddDate(2, 0, 0)
		device.CertificateSerial = &serial
		device.CertificateExpiresAt = &expires
	}
	return device
}

// Fingerprint produces a valid 64-char hex fingerprint from any seed.
func Fingerprint(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

func AddOperatorContext(req *http.Request, operator, role string) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, context_keys.OperatorContextKey, operator)
	ctx = context.WithValue(ctx, context_keys.RoleContextKey, role)
	return req.Clone(ctx)
}

// SignOperatorToken builds an HS256 operator JWT the auth middleware accepts.
func SignOperatorToken(operator, role, secret string) (string, error) {
	token, err := jwt.NewBuilder().
		Subject(operator).
		Claim("role", role).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(secret)))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}
