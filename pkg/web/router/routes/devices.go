package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
	"github.com/oakridge-sis/secure-sync-server/pkg/trust"
)

func registerDevice(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.DeviceRegistrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		manager := do.MustInvoke[trust.Manager](i)
		device, err := manager.RegisterDevice(req)
		if err != nil {
			log.Err(err).Msg("registerDevice: error registering device")
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dto.DeviceToDto(device))
	}
}

func getPendingDevices(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager := do.MustInvoke[trust.Manager](i)
		devices, err := manager.GetPendingRegistrations()
		if err != nil {
			log.Err(err).Msg("getPendingDevices: error listing pending devices")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		deviceDtos := lo.Map(devices, func(d models.RegisteredDevice, _ int) dto.DeviceDto {
			return dto.DeviceToDto(&d)
		})
		json.NewEncoder(w).Encode(deviceDtos)
	}
}

func approveDevice(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := uuid.Parse(chi.URLParam(r, "deviceId"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req dto.ApproveDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.ApprovedBy == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		manager := do.MustInvoke[trust.Manager](i)
		installation, err := manager.ApproveRegistration(deviceID, req.ApprovedBy)
		if err != nil {
			log.Err(err).Msg("approveDevice: error approving device")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(installation)
	}
}

func rejectDevice(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := uuid.Parse(chi.URLParam(r, "deviceId"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req dto.RejectDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.RejectedBy == "" || req.Reason == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		manager := do.MustInvoke[trust.Manager](i)
		if err := manager.RejectRegistration(deviceID, req.RejectedBy, req.Reason); err != nil {
			log.Err(err).Msg("rejectDevice: error rejecting device")
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func revokeDevice(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := uuid.Parse(chi.URLParam(r, "deviceId"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req dto.RevokeDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.RevokedBy == "" || req.Reason == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		manager := do.MustInvoke[trust.Manager](i)
		if err := manager.RevokeCertificate(deviceID, req.RevokedBy, req.Reason); err != nil {
			log.Err(err).Msg("revokeDevice: error revoking certificate")
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getCRL(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager := do.MustInvoke[trust.Manager](i)
		crl, err := manager.GetCertificateRevocationList()
		if err != nil {
			log.Err(err).Msg("getCRL: error generating CRL")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(crl)
	}
}

func DeviceRoutes(i *do.Injector) chi.Router {
	r := chi.NewRouter()
	r.Post("/", registerDevice(i))
	r.Get("/pending", getPendingDevices(i))
	r.Post("/{deviceId}/approve", approveDevice(i))
	r.Post("/{deviceId}/reject", rejectDevice(i))
	r.Post("/{deviceId}/revoke", revokeDevice(i))
	r.Get("/crl", getCRL(i))
	return r
}
