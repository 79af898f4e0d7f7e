package repository

//go:generate go run github.com/golang/mock/mockgen -destination=student_mock.go -package=repository github.com/oakridge-sis/secure-sync-server/pkg/database/repository StudentRepository

import (
	"github.com/google/uuid"
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
)

// StudentRepository is read-only from the sync subsystem's point of view;
// student records are owned by the enrollment modules upstream.
type StudentRepository interface {
	GetStudent(id uuid.UUID) (*models.Student, error)
	GetActiveStudents() ([]models.Student, error)
}

type StudentRepo struct {
	Injector *do.Injector
}

func (repo *StudentRepo) GetStudent(id uuid.UUID) (*models.Student, error) {
	q := do.MustInvoke[query.QueryService[models.Student]](repo.Injector)
	student, err := q.QueryOne("select * from students where id = $1", id)
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (repo *StudentRepo) GetActiveStudents() ([]models.Student, error) {
	q := do.MustInvoke[query.QueryService[models.Student]](repo.Injector)
	students, err := q.Query("select * from students where active = true order by student_number")
	if err != nil {
		return nil, err
	}
	return students, nil
}
