package repository

//go:generate go run github.com/golang/mock/mockgen -destination=token_mock.go -package=repository github.com/oakridge-sis/secure-sync-server/pkg/database/repository TokenRepository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
)

var ErrTokenAlreadyExists = errors.New("active token already exists for student and school year")

type TokenRepository interface {
	GetActiveToken(studentID uuid.UUID, schoolYear string) (*models.StudentToken, error)
	GetActiveTokenForStudent(studentID uuid.UUID) (*models.StudentToken, error)
	GetActiveTokens() ([]models.StudentToken, error)
	GetTokenByValue(tokenValue string) (*models.StudentToken, error)
	ActiveTokenValueExists(tokenValue string) (bool, error)
	CreateToken(token *models.StudentToken) (*models.StudentToken, error)
	CreateTokenTx(token *models.StudentToken, tx pgx.Tx) (*models.StudentToken, error)
	DeactivateTokenTx(id uuid.UUID, tx pgx.Tx) error
}

type TokenRepo struct {
	Injector *do.Injector
}

func (repo *TokenRepo) GetActiveToken(studentID uuid.UUID, schoolYear string) (*models.StudentToken, error) {
	q := do.MustInvoke[query.QueryService[models.StudentToken]](repo.Injector)
	return q.QueryOne("select * from student_tokens where student_id = $1 and school_year = $2 and active = true", studentID, schoolYear)
}

func (repo *TokenRepo) GetActiveTokenForStudent(studentID uuid.UUID) (*models.StudentToken, error) {
	q := do.MustInvoke[query.QueryService[models.StudentToken]](repo.Injector)
	return q.QueryOne("select * from student_tokens where student_id = $1 and active = true order by created_at desc limit 1", studentID)
}

func (repo *TokenRepo) GetActiveTokens() ([]models.StudentToken, error) {
	q := do.MustInvoke[query.QueryService[models.StudentToken]](repo.Injector)
	return q.Query("select * from student_tokens where active = true")
}

func (repo *TokenRepo) GetTokenByValue(tokenValue string) (*models.StudentToken, error) {
	q := do.MustInvoke[query.QueryService[models.StudentToken]](repo.Injector)
	return q.QueryOne("select * from student_tokens where token_value = $1 order by created_at desc limit 1", tokenValue)
}

func (repo *TokenRepo) ActiveTokenValueExists(tokenValue string) (bool, error) {
	q := do.MustInvoke[query.QueryService[models.StudentToken]](repo.Injector)
	token, err := q.QueryOne("select * from student_tokens where token_value = $1 and active = true", tokenValue)
	if err != nil {
		return false, err
	}
	return token != nil, nil
}

func (repo *TokenRepo) CreateToken(token *models.StudentToken) (*models.StudentToken, error) {
	q := do.MustInvoke[query.QueryService[models.StudentToken]](repo.Injector)
	existing, err := q.QueryOne("select * from student_tokens where student_id = $1 and school_year = $2 and active = true", token.StudentID, token.SchoolYear)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTokenAlreadyExists
	}
	return q.QueryOne(
		"insert into student_tokens (student_id, token_value, school_year, created_at, expires_at, rotation_count, active, previous_token_id) values ($1, $2, $3, $4, $5, $6, $7, $8) returning *",
		token.StudentID, token.TokenValue, token.SchoolYear, token.CreatedAt, token.ExpiresAt, token.RotationCount, token.Active, token.PreviousTokenID,
	)
}

func (repo *TokenRepo) CreateTokenTx(token *models.StudentToken, tx pgx.Tx) (*models.StudentToken, error) {
	q := do.MustInvoke[query.QueryServiceTx[models.StudentToken]](repo.Injector)
	existing, err := q.QueryOne(tx, "select * from student_tokens where student_id = $1 and school_year = $2 and active = true", token.StudentID, token.SchoolYear)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTokenAlreadyExists
	}
	return q.QueryOne(tx,
		"insert into student_tokens (student_id, token_value, school_year, created_at, expires_at, rotation_count, active, previous_token_id) values ($1, $2, $3, $4, $5, $6, $7, $8) returning *",
		token.StudentID, token.TokenValue, token.SchoolYear, token.CreatedAt, token.ExpiresAt, token.RotationCount, token.Active, token.PreviousTokenID,
	)
}

func (repo *TokenRepo) DeactivateTokenTx(id uuid.UUID, tx pgx.Tx) error {
	q := do.MustInvoke[query.QueryServiceTx[models.StudentToken]](repo.Injector)
	return q.Insert(tx, "update student_tokens set active = false where id = $1", id)
}
