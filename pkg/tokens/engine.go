// Package tokens implements irreversible tokenization of student identities.
// A token is derived from a keyed one-way hash, so holding a token (or the
// whole export stream) is never enough to recover the student it stands for.
package tokens

//go:generate go run github.com/golang/mock/mockgen -destination=engine_mock.go -package=tokens github.com/oakridge-sis/secure-sync-server/pkg/tokens Engine

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/repository"
	"github.com/oakridge-sis/secure-sync-server/pkg/domain"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
)

type Engine interface {
	GenerateToken(studentID uuid.UUID) (*models.StudentToken, error)
	GenerateAllTokens() (*dto.TokenBatchSummaryDto, error)
	RotateToken(studentID uuid.UUID, reason string) (*models.StudentToken, error)
	PerformAnnualRotation() (*dto.TokenBatchSummaryDto, error)
	ValidateToken(tokenValue string) (*dto.TokenValidationDto, error)
}

// maxDerivationAttempts bounds collision retries before the operation is
// declared a crypto failure. The 24-bit keyspace (~16.7M) makes exhaustion
// under realistic enrollment sizes effectively impossible.
const maxDerivationAttempts = 16

var tokenPattern = regexp.MustCompile(`^STU-[0-9A-F]{6}$`)

type EngineImpl struct {
	Injector *do.Injector
	Secret   []byte
	Now      func() time.Time

	mu           sync.Mutex
	studentLocks map[uuid.UUID]*sync.Mutex
}

func NewEngineService(i *do.Injector) (Engine, error) {
	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		return nil, errors.New("TOKEN_SECRET must be set")
	}
	return &EngineImpl{
		Injector:     i,
		Secret:       []byte(secret),
		Now:          time.Now,
		studentLocks: make(map[uuid.UUID]*sync.Mutex),
	}, nil
}

// lockStudent serializes generation and rotation per student so two
// concurrent calls cannot both create an active token.
func (e *EngineImpl) lockStudent(studentID uuid.UUID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.studentLocks == nil {
		e.studentLocks = make(map[uuid.UUID]*sync.Mutex)
	}
	lock, ok := e.studentLocks[studentID]
	if !ok {
		lock = &sync.Mutex{}
		e.studentLocks[studentID] = lock
	}
	return lock
}

// SchoolYear returns the "2025-2026" style label for the year containing t.
// School years roll over on July 1.
func SchoolYear(t time.Time) string {
	year := t.Year()
	if t.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}

// schoolYearEnd is June 30 of the school year's closing calendar year. Tokens
// expire with the school year they were issued for.
func schoolYearEnd(t time.Time) time.Time {
	year := t.Year()
	if t.Month() >= time.July {
		year++
	}
	return time.Date(year, time.June, 30, 23, 59, 59, 0, time.UTC)
}

func (e *EngineImpl) GenerateToken(studentID uuid.UUID) (*models.StudentToken, error) {
	lock := e.lockStudent(studentID)
	lock.Lock()
	defer lock.Unlock()
	return e.generateLocked(studentID)
}

func (e *EngineImpl) generateLocked(studentID uuid.UUID) (*models.StudentToken, error) {
	studentRepo := do.MustInvoke[repository.StudentRepository](e.Injector)
	student, err := studentRepo.GetStudent(studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.Validation("unknown student %s", studentID)
	}
	tokenRepo := do.MustInvoke[repository.TokenRepository](e.Injector)
	now := e.Now()
	year := SchoolYear(now)
	existing, err := tokenRepo.GetActiveToken(studentID, year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return e.createToken(tokenRepo, studentID, year, now, 0, nil)
}

// createToken derives a fresh token value and persists it. Collisions against
// existing active tokens are resolved by re-deriving with a fresh salt.
func (e *EngineImpl) createToken(tokenRepo repository.TokenRepository, studentID uuid.UUID, year string, now time.Time, rotationCount int, previous *uuid.UUID) (*models.StudentToken, error) {
	for attempt := 0; attempt < maxDerivationAttempts; attempt++ {
		value, err := e.deriveTokenValue(studentID)
		if err != nil {
			return nil, domain.Crypto(err, "deriving token for student %s", studentID)
		}
		taken, err := tokenRepo.ActiveTokenValueExists(value)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		token := &models.StudentToken{
			StudentID:       studentID,
			TokenValue:      value,
			SchoolYear:      year,
			CreatedAt:       now,
			ExpiresAt:       schoolYearEnd(now),
			RotationCount:   rotationCount,
			Active:          true,
			PreviousTokenID: previous,
		}
		created, err := tokenRepo.CreateToken(token)
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	return nil, domain.Crypto(nil, "token keyspace exhausted after %d attempts for student %s", maxDerivationAttempts, studentID)
}

// deriveTokenValue computes STU- plus the first 24 bits of
// HMAC-SHA256(secret, studentID || salt) in uppercase hex. The salt is random
// per derivation, so a retry changes the output.
func (e *EngineImpl) deriveTokenValue(studentID uuid.UUID) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	mac := hmac.New(sha256.New, e.Secret)
	mac.Write([]byte(studentID.String()))
	mac.Write(salt)
	sum := mac.Sum(nil)
	truncated := uint32(sum[0])<<16 | uint32(sum[1])<<8 | uint32(sum[2])
	return fmt.Sprintf("STU-%06X", truncated), nil
}

func (e *EngineImpl) GenerateAllTokens() (*dto.TokenBatchSummaryDto, error) {
	studentRepo := do.MustInvoke[repository.StudentRepository](e.Injector)
	tokenRepo := do.MustInvoke[repository.TokenRepository](e.Injector)
	students, err := studentRepo.GetActiveStudents()
	if err != nil {
		return nil, err
	}
	summary := &dto.TokenBatchSummaryDto{Total: len(students)}
	now := e.Now()
	year := SchoolYear(now)
	for _, student := range students {
		lock := e.lockStudent(student.ID)
		lock.Lock()
		existing, err := tokenRepo.GetActiveToken(student.ID, year)
		if err == nil {
			if existing != nil {
				summary.Skipped++
				lock.Unlock()
				continue
			}
			_, err = e.createToken(tokenRepo, student.ID, year, now, 0, nil)
		}
		lock.Unlock()
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, dto.TokenErrorDto{StudentID: student.ID, Error: err.Error()})
			continue
		}
		summary.Generated++
	}
	log.Info().
		Int("total", summary.Total).
		Int("generated", summary.Generated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("bulk token generation finished")
	return summary, nil
}

func (e *EngineImpl) RotateToken(studentID uuid.UUID, reason string) (*models.StudentToken, error) {
	lock := e.lockStudent(studentID)
	lock.Lock()
	defer lock.Unlock()
	token, err := e.rotateLocked(studentID, reason)
	e.auditRotation(studentID, reason, err)
	return token, err
}

func (e *EngineImpl) rotateLocked(studentID uuid.UUID, reason string) (*models.StudentToken, error) {
	tokenRepo := do.MustInvoke[repository.TokenRepository](e.Injector)
	current, err := tokenRepo.GetActiveTokenForStudent(studentID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.NotFound("no active token for student %s", studentID)
	}
	txService := do.MustInvoke[query.TransactionService](e.Injector)
	tx, err := txService.StartTx(pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer query.RollbackFunc(txService, tx, &err)
	if err = tokenRepo.DeactivateTokenTx(current.ID, tx); err != nil {
		return nil, err
	}
	now := e.Now()
	var replacement *models.StudentToken
	for attempt := 0; attempt < maxDerivationAttempts; attempt++ {
		var value string
		value, err = e.deriveTokenValue(studentID)
		if err != nil {
			err = domain.Crypto(err, "deriving replacement token for student %s", studentID)
			return nil, err
		}
		var taken bool
		taken, err = tokenRepo.ActiveTokenValueExists(value)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		replacement, err = tokenRepo.CreateTokenTx(&models.StudentToken{
			StudentID:       studentID,
			TokenValue:      value,
			SchoolYear:      SchoolYear(now),
			CreatedAt:       now,
			ExpiresAt:       schoolYearEnd(now),
			RotationCount:   current.RotationCount + 1,
			Active:          true,
			PreviousTokenID: &current.ID,
		}, tx)
		if err != nil {
			return nil, err
		}
		break
	}
	if replacement == nil {
		err = domain.Crypto(nil, "token keyspace exhausted rotating student %s", studentID)
		return nil, err
	}
	if err = txService.Commit(tx); err != nil {
		return nil, err
	}
	return replacement, nil
}

func (e *EngineImpl) auditRotation(studentID uuid.UUID, reason string, opErr error) {
	event := log.Info()
	if opErr != nil {
		event = log.Warn().Err(opErr)
	}
	event.Str("audit", "token_rotation").Str("reason", reason).Msg("token rotation attempted")
	auditRepo := do.MustInvoke[repository.AuditRepository](e.Injector)
	if err := auditRepo.RecordEvent(&models.AuditEvent{
		Action:    "TOKEN_ROTATION",
		Actor:     "system",
		Subject:   studentID.String(),
		Detail:    reason,
		Success:   opErr == nil,
		CreatedAt: e.Now(),
	}); err != nil {
		log.Err(err).Msg("failed to persist rotation audit event")
	}
}

func (e *EngineImpl) PerformAnnualRotation() (*dto.TokenBatchSummaryDto, error) {
	tokenRepo := do.MustInvoke[repository.TokenRepository](e.Injector)
	active, err := tokenRepo.GetActiveTokens()
	if err != nil {
		return nil, err
	}
	summary := &dto.TokenBatchSummaryDto{Total: len(active)}
	for _, token := range active {
		if _, err := e.RotateToken(token.StudentID, "annual rotation"); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, dto.TokenErrorDto{StudentID: token.StudentID, Error: err.Error()})
			continue
		}
		summary.Generated++
	}
	log.Info().
		Str("audit", "annual_rotation").
		Int("total", summary.Total).
		Int("rotated", summary.Generated).
		Int("failed", summary.Failed).
		Msg("annual token rotation finished")
	return summary, nil
}

func (e *EngineImpl) ValidateToken(tokenValue string) (*dto.TokenValidationDto, error) {
	if !tokenPattern.MatchString(tokenValue) {
		return nil, domain.Validation("malformed token value %q", tokenValue)
	}
	tokenRepo := do.MustInvoke[repository.TokenRepository](e.Injector)
	token, err := tokenRepo.GetTokenByValue(tokenValue)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return &dto.TokenValidationDto{Valid: false, Reason: dto.TokenReasonNotFound}, nil
	}
	if !token.Active {
		return &dto.TokenValidationDto{Valid: false, Reason: dto.TokenReasonInactive}, nil
	}
	if e.Now().After(token.ExpiresAt) {
		return &dto.TokenValidationDto{Valid: false, Reason: dto.TokenReasonExpired}, nil
	}
	return &dto.TokenValidationDto{
		Valid:      true,
		SchoolYear: token.SchoolYear,
		CreatedAt:  &token.CreatedAt,
		ExpiresAt:  &token.ExpiresAt,
	}, nil
}
