// handlers_debug.go — /test-move: debug endpoint that schedules a delayed
// sequence of absolute moves straight through the Motion Engine (spec
// §4.1, SPEC_FULL.md "Debug /test-move endpoint").
package controlplane

import (
	"net/http"
	"time"

	"github.com/formpilot/pilotd/internal/motion"
	"github.com/formpilot/pilotd/internal/util"
)

// testMoveStep is one entry of the POST /test-move body: an absolute
// target and a delay (from now) before the Motion Engine executes it.
type testMoveStep struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	DelayMS int     `json:"delay_ms"`
}

type testMoveRequest struct {
	Moves []testMoveStep `json:"moves"`
}

// handleTestMove schedules each move via time.AfterFunc, calling straight
// into the Motion Engine using the Store's last-known cursor as the move
// start. Debug-only; not part of the core verify-before-proceed flow.
func (s *Server) handleTestMove(w http.ResponseWriter, r *http.Request) {
	var req testMoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		util.JSONResponse(w, http.StatusBadRequest, errBody(err))
		return
	}

	for _, m := range req.Moves {
		target := motion.Point{X: m.X, Y: m.Y}
		time.AfterFunc(time.Duration(m.DelayMS)*time.Millisecond, func() {
			x, y, ok := s.store.Cursor()
			if !ok {
				return
			}
			if _, err := s.motion.MoveTo(motion.Point{X: x, Y: y}, target); err != nil {
				s.logger.Warn().Err(err).Msg("test-move: move failed")
			}
		})
	}
	util.JSONResponse(w, http.StatusOK, struct{}{})
}
