package repository

//go:generate go run github.com/golang/mock/mockgen -destination=audit_mock.go -package=repository github.com/oakridge-sis/secure-sync-server/pkg/database/repository AuditRepository

import (
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
)

type AuditRepository interface {
	RecordEvent(event *models.AuditEvent) error
	GetRecentEvents(limit int) ([]models.AuditEvent, error)
}

type AuditRepo struct {
	Injector *do.Injector
}

func (repo *AuditRepo) RecordEvent(event *models.AuditEvent) error {
	q := do.MustInvoke[query.QueryService[models.AuditEvent]](repo.Injector)
	return q.Insert(
		"insert into audit_events (action, actor, subject, detail, success, created_at) values ($1, $2, $3, $4, $5, $6)",
		event.Action, event.Actor, event.Subject, event.Detail, event.Success, event.CreatedAt,
	)
}

func (repo *AuditRepo) GetRecentEvents(limit int) ([]models.AuditEvent, error) {
	q := do.MustInvoke[query.QueryService[models.AuditEvent]](repo.Injector)
	return q.Query("select * from audit_events order by created_at desc limit $1", limit)
}
