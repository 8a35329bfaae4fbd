// handlers_automation.go — /automation (park) and /start (dispatch) —
// spec §4.1, §9 "a subsequent POST to /automation overwrites the parked
// list (does not cancel running); a subsequent /start dispatches the
// most recently parked list only if no run is in progress."
package controlplane

import (
	"context"
	"errors"
	"net/http"

	"github.com/formpilot/pilotd/internal/command"
	"github.com/formpilot/pilotd/internal/probe"
	"github.com/formpilot/pilotd/internal/util"
)

var (
	errAlreadyRunning = errors.New("a command list is already running")
	errNothingParked  = errors.New("no command list is parked")
)

// handleAutomation parks a new command list for later dispatch. An
// optional cursor hint sets cursor in the State Store. Never executes.
func (s *Server) handleAutomation(w http.ResponseWriter, r *http.Request) {
	var req probe.AutomationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		util.JSONResponse(w, http.StatusBadRequest, errBody(err))
		return
	}

	actions, err := command.ParseList(req.Commands)
	if err != nil {
		util.JSONResponse(w, http.StatusBadRequest, errBody(err))
		return
	}

	if req.CursorX != nil && req.CursorY != nil {
		s.store.SetCursor(*req.CursorX, *req.CursorY)
	}

	s.parked.park(actions)
	util.JSONResponse(w, http.StatusOK, struct{}{})
}

// handleStart dispatches the parked command list into the Action Engine.
// 400 if none parked; 409 if a run is already in progress.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if s.store.Automating() {
		util.JSONResponse(w, http.StatusConflict, errBody(errAlreadyRunning))
		return
	}

	actions, ok := s.parked.take()
	if !ok {
		util.JSONResponse(w, http.StatusBadRequest, errBody(errNothingParked))
		return
	}

	s.runAsync(context.Background(), actions)
	util.JSONResponse(w, http.StatusOK, struct{}{})
}
