package routes

import (
	"encoding/json"
	"net/http"

	"github.com/oakridge-sis/secure-sync-server/pkg/domain"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
)

// writeError maps a domain error to its HTTP status and a small JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := domain.HTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := dto.ErrorDto{Kind: domain.KindOf(err).String()}
	if status != http.StatusInternalServerError {
		body.Error = err.Error()
	} else {
		body.Error = "internal error"
	}
	json.NewEncoder(w).Encode(body)
}
