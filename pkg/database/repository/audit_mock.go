package repository

import (
	"sync"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
)

// AuditRepoMock is an in-memory implementation of AuditRepository for testing
type AuditRepoMock struct {
	mu     sync.Mutex
	Events []models.AuditEvent
}

func (mock *AuditRepoMock) RecordEvent(event *models.AuditEvent) error {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.Events = append(mock.Events, *event)
	return nil
}

func (mock *AuditRepoMock) GetRecentEvents(limit int) ([]models.AuditEvent, error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	var result []models.AuditEvent
	for i := len(mock.Events) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, mock.Events[i])
	}
	return result, nil
}
