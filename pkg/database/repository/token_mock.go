package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

// TokenRepoMock is an in-memory implementation of TokenRepository for testing
type TokenRepoMock struct {
	mu     sync.Mutex
	Tokens []models.StudentToken

	// CreateErr, when set, is returned by both create methods.
	CreateErr error
}

func (mock *TokenRepoMock) GetActiveToken(studentID uuid.UUID, schoolYear string) (*models.StudentToken, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for i := range mock.Tokens {
		t := mock.Tokens[i]
		if t.StudentID == studentID && t.SchoolYear == schoolYear && t.Active {
			return &t, nil
		}
	}
	return nil, nil
}

func (mock *TokenRepoMock) GetActiveTokenForStudent(studentID uuid.UUID) (*models.StudentToken, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	var latest *models.StudentToken
	for i := range mock.Tokens {
		t := mock.Tokens[i]
		if t.StudentID == studentID && t.Active {
			if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
				copied := t
				latest = &copied
			}
		}
	}
	return latest, nil
}

func (mock *TokenRepoMock) GetActiveTokens() ([]models.StudentToken, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	var result []models.StudentToken
	for _, t := range mock.Tokens {
		if t.Active {
			result = append(result, t)
		}
	}
	return result, nil
}

func (mock *TokenRepoMock) GetTokenByValue(tokenValue string) (*models.StudentToken, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	var latest *models.StudentToken
	for i := range mock.Tokens {
		t := mock.Tokens[i]
		if t.TokenValue == tokenValue {
			if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
				copied := t
				latest = &copied
			}
		}
	}
	return latest, nil
}

func (mock *TokenRepoMock) ActiveTokenValueExists(tokenValue string) (bool, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for _, t := range mock.Tokens {
		if t.TokenValue == tokenValue && t.Active {
			return true, nil
		}
	}
	return false, nil
}

func (mock *TokenRepoMock) CreateToken(token *models.StudentToken) (*models.StudentToken, error) {
	if mock.CreateErr != nil {
		return nil, mock.CreateErr
	}
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for _, t := range mock.Tokens {
		if t.StudentID == token.StudentID && t.SchoolYear == token.SchoolYear && t.Active {
			return nil, ErrTokenAlreadyExists
		}
	}
	created := *token
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	mock.Tokens = append(mock.Tokens, created)
	return &created, nil
}

func (mock *TokenRepoMock) CreateTokenTx(token *models.StudentToken, tx pgx.Tx) (*models.StudentToken, error) {
	return mock.CreateToken(token)
}

func (mock *TokenRepoMock) DeactivateTokenTx(id uuid.UUID, tx pgx.Tx) error {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	for i := range mock.Tokens {
		if mock.Tokens[i].ID == id {
			mock.Tokens[i].Active = false
		}
	}
	return nil
}
