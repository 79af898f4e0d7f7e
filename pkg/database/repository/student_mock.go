package repository

import (
	"github.com/google/uuid"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

// StudentRepoMock is an in-memory implementation of StudentRepository for testing
type StudentRepoMock struct {
	Students []models.Student
}

func (mock *StudentRepoMock) GetStudent(id uuid.UUID) (*models.Student, error) {
	for i := range mock.Students {
		if mock.Students[i].ID == id {
			s := mock.Students[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (mock *StudentRepoMock) GetActiveStudents() ([]models.Student, error) {
	var result []models.Student
	for _, s := range mock.Students {
		if s.Active {
			result = append(result, s)
		}
	}
	return result, nil
}
