// response.go — HTTP response helpers shared by every control-plane handler.
package util

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// JSONResponse writes a JSON response with the given status code and data.
// Handlers never throw: a body-encode failure is logged, not propagated,
// since headers are already written by the time encoding can fail.
func JSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// EmptyJSONResponse writes "{}" — the wire contract's shape for "no pending
// query" / "no pending scan" on GET /coord-request and GET /scan-request.
func EmptyJSONResponse(w http.ResponseWriter) {
	JSONResponse(w, http.StatusOK, struct{}{})
}
