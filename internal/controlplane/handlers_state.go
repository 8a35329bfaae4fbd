// handlers_state.go — /cursor-position, /cursor-hover, /status.
package controlplane

import (
	"encoding/json"
	"net/http"

	"github.com/formpilot/pilotd/internal/probe"
	"github.com/formpilot/pilotd/internal/util"
)

// handleCursorPosition updates the State Store: cursor, hover, and (if
// present) viewport bounds. A (0,0) reading never overwrites a previously
// valid cursor.
func (s *Server) handleCursorPosition(w http.ResponseWriter, r *http.Request) {
	var e probe.CursorPositionEvent
	if err := decodeJSON(w, r, &e); err != nil {
		util.JSONResponse(w, http.StatusBadRequest, errBody(err))
		return
	}
	s.store.ApplyCursorPosition(e)
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

// handleCursorHover updates only the hover target — must never touch
// cursor position.
func (s *Server) handleCursorHover(w http.ResponseWriter, r *http.Request) {
	var e probe.CursorHoverEvent
	if err := decodeJSON(w, r, &e); err != nil {
		util.JSONResponse(w, http.StatusBadRequest, errBody(err))
		return
	}
	s.store.ApplyCursorHover(e)
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

// statusResponse is the body GET /status returns.
type statusResponse struct {
	CursorX    float64 `json:"cursor_x"`
	CursorY    float64 `json:"cursor_y"`
	CursorOK   bool    `json:"cursor_valid"`
	Automating bool    `json:"automating"`
	LastForm   json.RawMessage `json:"last_form_fields,omitempty"`
}

// handleStatus returns current cursor, automating flag, and last detected
// fields.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.store.Status()
	resp := statusResponse{
		CursorX:    st.CursorX,
		CursorY:    st.CursorY,
		CursorOK:   st.CursorValid,
		Automating: st.Automating,
	}
	if st.LastForm != nil {
		resp.LastForm = json.RawMessage(st.LastForm.Raw)
	}
	util.JSONResponse(w, http.StatusOK, resp)
}

func errBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
