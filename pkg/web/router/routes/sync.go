package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/repository"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
	"github.com/oakridge-sis/secure-sync-server/pkg/syncpipe"
)

func enqueueChange(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.EnqueueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		pipeline := do.MustInvoke[syncpipe.Pipeline](i)
		if err := pipeline.Enqueue(req.EntityType, req.EntityID, req.ChangeType); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func getQueueStatus(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pipeline := do.MustInvoke[syncpipe.Pipeline](i)
		status, err := pipeline.GetBurstQueueStatus()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(status)
	}
}

func processBurst(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pipeline := do.MustInvoke[syncpipe.Pipeline](i)
		pkg, err := pipeline.ProcessBurstQueue()
		if err != nil {
			log.Err(err).Msg("processBurst: error packaging burst queue")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(pkg)
	}
}

func generateEnrollmentBatch(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pipeline := do.MustInvoke[syncpipe.Pipeline](i)
		pkg, err := pipeline.GenerateEnrollmentBatch()
		if err != nil {
			log.Err(err).Msg("generateEnrollmentBatch: error generating batch")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(pkg)
	}
}

func generateCRLPackage(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pipeline := do.MustInvoke[syncpipe.Pipeline](i)
		pkg, err := pipeline.GenerateCRLSyncPackage()
		if err != nil {
			log.Err(err).Msg("generateCRLPackage: error generating CRL package")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(pkg)
	}
}

func getStatistics(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pipeline := do.MustInvoke[syncpipe.Pipeline](i)
		stats, err := pipeline.GetSyncStatistics()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(stats)
	}
}

func getHistory(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		pipeline := do.MustInvoke[syncpipe.Pipeline](i)
		records, err := pipeline.GetSyncHistory(limit)
		if err != nil {
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(records)
	}
}

func getAuditEvents(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		auditRepo := do.MustInvoke[repository.AuditRepository](i)
		events, err := auditRepo.GetRecentEvents(limit)
		if err != nil {
			log.Err(err).Msg("getAuditEvents: error reading audit trail")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(events)
	}
}

func SyncRoutes(i *do.Injector) chi.Router {
	r := chi.NewRouter()
	r.Post("/queue", enqueueChange(i))
	r.Get("/queue/status", getQueueStatus(i))
	r.Post("/burst", processBurst(i))
	r.Post("/enrollment-batch", generateEnrollmentBatch(i))
	r.Post("/crl-package", generateCRLPackage(i))
	r.Get("/statistics", getStatistics(i))
	r.Get("/history", getHistory(i))
	r.Get("/audit", getAuditEvents(i))
	return r
}
