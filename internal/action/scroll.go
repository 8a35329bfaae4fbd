// scroll.go — the scroll-into-view helper: up to 12 iterations of SCROLL,units + re-query until the
// element reports in_viewport, or scroll_delta_needed is "close enough".
package action

import (
	"fmt"
	"math"
	"time"

	"github.com/formpilot/pilotd/internal/probe"
)

const (
	maxScrollIterations = 12
	closeEnoughDeltaPx  = 50.0
	scrollSettleAfter   = 150 * time.Millisecond
)

// scrollIntoView repeatedly scrolls toward the element identified by
// selector/labelText until the Probe reports in_viewport (or a
// close-enough residual), returning the latest snapshot. On exhaustion it
// returns the last snapshot observed with InViewport forced false, so
// callers treat it as a failed attempt.
func (e *Engine) scrollIntoView(selector, labelText string) (probe.CoordResponse, error) {
	var last probe.CoordResponse
	for i := 0; i < maxScrollIterations; i++ {
		resp, err := e.queryDOM(selector, labelText)
		if err != nil {
			return probe.CoordResponse{}, err
		}
		last = resp

		if resp.InViewport {
			e.sleep(scrollSettleAfter)
			return resp, nil
		}

		if math.Abs(resp.ScrollDeltaNeeded) < closeEnoughDeltaPx {
			// Accept as "close enough" without an additional scroll.
			last.InViewport = true
			e.sleep(scrollSettleAfter)
			return last, nil
		}

		units := scrollUnits(resp.ScrollDeltaNeeded, e.rand.Intn)
		e.injector.Send(fmt.Sprintf("SCROLL,%d", units))
		e.sleep(jitterRange(e.rand, 80, 120))
	}

	last.InViewport = false
	return last, nil
}

// scrollUnits picks sign(delta) * rand(4..=8).
func scrollUnits(delta float64, intn func(int) int) int {
	n := 4 + intn(5)
	if delta < 0 {
		return -n
	}
	return n
}
