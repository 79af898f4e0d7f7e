package setup

import (
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/crypto"
	"github.com/oakridge-sis/secure-sync-server/pkg/database"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/query"
	"github.com/oakridge-sis/secure-sync-server/pkg/database/repository"
	"github.com/oakridge-sis/secure-sync-server/pkg/syncpipe"
	"github.com/oakridge-sis/secure-sync-server/pkg/tokens"
	"github.com/oakridge-sis/secure-sync-server/pkg/trust"
	"github.com/oakridge-sis/secure-sync-server/pkg/web/middleware"
)

func SetupServices(i *do.Injector) {
	do.Provide(i, database.NewDataAccessorService)
	do.Provide(i, func(i *do.Injector) (query.TransactionService, error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.TransactionServiceImpl{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryService[models.Student], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceImpl[models.Student]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryService[models.StudentToken], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceImpl[models.StudentToken]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryServiceTx[models.StudentToken], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceTxImpl[models.StudentToken]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryService[models.RegisteredDevice], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceImpl[models.RegisteredDevice]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryServiceTx[models.RegisteredDevice], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceTxImpl[models.RegisteredDevice]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryService[models.SyncBatchRecord], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceImpl[models.SyncBatchRecord]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryServiceTx[models.SyncBatchRecord], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceTxImpl[models.SyncBatchRecord]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryService[models.EnrollmentChange], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceImpl[models.EnrollmentChange]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryServiceTx[models.EnrollmentChange], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceTxImpl[models.EnrollmentChange]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryService[models.SyncStats], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceImpl[models.SyncStats]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (query.QueryService[models.AuditEvent], error) {
		dataAccessor := do.MustInvoke[database.DataAccessor](i)
		return &query.QueryServiceImpl[models.AuditEvent]{DataAccessor: dataAccessor}, nil
	})
	do.Provide(i, func(i *do.Injector) (repository.StudentRepository, error) {
		return &repository.StudentRepo{Injector: i}, nil
	})
	do.Provide(i, func(i *do.Injector) (repository.TokenRepository, error) {
		return &repository.TokenRepo{Injector: i}, nil
	})
	do.Provide(i, func(i *do.Injector) (repository.DeviceRepository, error) {
		return &repository.DeviceRepo{Injector: i}, nil
	})
	do.Provide(i, func(i *do.Injector) (repository.SyncRepository, error) {
		return &repository.SyncRepo{Injector: i}, nil
	})
	do.Provide(i, func(i *do.Injector) (repository.AuditRepository, error) {
		return &repository.AuditRepo{Injector: i}, nil
	})
	do.Provide(i, middleware.NewOperatorKeyService)
	do.Provide(i, crypto.NewCertificateAuthorityService)
	do.Provide(i, crypto.NewCipherService)
	do.Provide(i, tokens.NewEngineService)
	do.Provide(i, trust.NewManagerService)
	do.Provide(i, syncpipe.NewPipelineService)
}
