// handlers_diagnostic.go — /dom-change, /form-fields, /bottom-reached:
// diagnostic sinks that log at info level with the decoded body as
// structured fields,
// grounded on the teacher's many logged-only endpoints (e.g. its
// telemetry/alerts handlers).
package controlplane

import (
	"io"
	"net/http"

	"github.com/formpilot/pilotd/internal/util"
)

// handleDOMChange logs the raw body and acknowledges. Diagnostic only.
func (s *Server) handleDOMChange(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	defer r.Body.Close()
	s.logger.Info().RawJSON("body", rawOrNull(raw)).Msg("dom-change")
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

// handleFormFields stores the most recent "last detected form" snapshot,
// echoed back verbatim by GET /status.
func (s *Server) handleFormFields(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	defer r.Body.Close()
	s.store.SetLastFormFields(raw)
	s.logger.Info().RawJSON("body", rawOrNull(raw)).Msg("form-fields")
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

// handleBottomReached logs that the Probe detected the page bottom.
func (s *Server) handleBottomReached(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	defer r.Body.Close()
	s.logger.Info().RawJSON("body", rawOrNull(raw)).Msg("bottom-reached")
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

func rawOrNull(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
