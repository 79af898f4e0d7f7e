package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"

	"github.com/oakridge-sis/secure-sync-server/pkg/database/models"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
	"github.com/oakridge-sis/secure-sync-server/pkg/tokens"
)

func tokenToDto(t *models.StudentToken) dto.TokenDto {
	return dto.TokenDto{
		TokenValue:    t.TokenValue,
		SchoolYear:    t.SchoolYear,
		CreatedAt:     t.CreatedAt,
		ExpiresAt:     t.ExpiresAt,
		RotationCount: t.RotationCount,
		Active:        t.Active,
	}
}

func generateToken(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := uuid.Parse(chi.URLParam(r, "studentId"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		engine := do.MustInvoke[tokens.Engine](i)
		token, err := engine.GenerateToken(studentID)
		if err != nil {
			log.Err(err).Msg("generateToken: error generating token")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(tokenToDto(token))
	}
}

func generateAllTokens(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine := do.MustInvoke[tokens.Engine](i)
		summary, err := engine.GenerateAllTokens()
		if err != nil {
			log.Err(err).Msg("generateAllTokens: error running batch generation")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(summary)
	}
}

func rotateToken(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, err := uuid.Parse(chi.URLParam(r, "studentId"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req dto.RotateTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Reason == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		engine := do.MustInvoke[tokens.Engine](i)
		token, err := engine.RotateToken(studentID, req.Reason)
		if err != nil {
			log.Err(err).Msg("rotateToken: error rotating token")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(tokenToDto(token))
	}
}

func rotateAnnual(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine := do.MustInvoke[tokens.Engine](i)
		summary, err := engine.PerformAnnualRotation()
		if err != nil {
			log.Err(err).Msg("rotateAnnual: error running annual rotation")
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(summary)
	}
}

func validateToken(i *do.Injector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine := do.MustInvoke[tokens.Engine](i)
		result, err := engine.ValidateToken(chi.URLParam(r, "tokenValue"))
		if err != nil {
			writeError(w, err)
			return
		}
		json.NewEncoder(w).Encode(result)
	}
}

func TokenRoutes(i *do.Injector) chi.Router {
	r := chi.NewRouter()
	r.Post("/generate-all", generateAllTokens(i))
	r.Post("/rotate-annual", rotateAnnual(i))
	r.Post("/{studentId}", generateToken(i))
	r.Post("/{studentId}/rotate", rotateToken(i))
	r.Get("/validate/{tokenValue}", validateToken(i))
	return r
}
