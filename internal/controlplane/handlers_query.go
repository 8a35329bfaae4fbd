// handlers_query.go — the DOM-query and scan request/response endpoints
// the Probe polls and replies to.
package controlplane

import (
	"net/http"

	"github.com/formpilot/pilotd/internal/probe"
	"github.com/formpilot/pilotd/internal/util"
)

// handleCoordRequest returns the single pending DOM query, or "{}" if
// none is pending. Idempotent — the Probe polls this continuously.
func (s *Server) handleCoordRequest(w http.ResponseWriter, r *http.Request) {
	req := s.store.CurrentDOMQuery()
	if req.Empty() {
		util.EmptyJSONResponse(w)
		return
	}
	util.JSONResponse(w, http.StatusOK, req)
}

// handleCoordResponse delivers a DOM snapshot, resolving the waiter if
// the request id still matches the current pending query. A late or
// unknown id is silently discarded, not an error.
func (s *Server) handleCoordResponse(w http.ResponseWriter, r *http.Request) {
	var resp probe.CoordResponse
	if err := decodeJSON(w, r, &resp); err != nil {
		util.JSONResponse(w, http.StatusBadRequest, errBody(err))
		return
	}
	s.store.ResolveDOMQuery(resp)
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

// handleScanRequest returns the pending scan, or "{}" if none.
func (s *Server) handleScanRequest(w http.ResponseWriter, r *http.Request) {
	req := s.store.CurrentScan()
	if req.Empty() {
		util.EmptyJSONResponse(w)
		return
	}
	util.JSONResponse(w, http.StatusOK, req)
}

// handleScanResponse delivers scan results, resolving the waiter.
func (s *Server) handleScanResponse(w http.ResponseWriter, r *http.Request) {
	var resp probe.ScanResponse
	if err := decodeJSON(w, r, &resp); err != nil {
		util.JSONResponse(w, http.StatusBadRequest, errBody(err))
		return
	}
	s.store.ResolveScan(resp)
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

// handleTriggerScan synchronously issues a scan and waits for the result,
// up to ScanTimeout.
func (s *Server) handleTriggerScan(w http.ResponseWriter, r *http.Request) {
	id := s.store.CreateScan()
	resp, err := s.store.AwaitScan(id, ScanTimeout)
	if err != nil {
		util.JSONResponse(w, http.StatusGatewayTimeout, errBody(err))
		return
	}
	util.JSONResponse(w, http.StatusOK, resp)
}
