// clickoption.go — CLICK_OPTION handler: up to 20 attempts,
// because option toggles in React forms can require several strikes. Pre-
// checks for already-checked, tolerates transient "not found" during
// re-render, and jiggles the cursor on retries to refresh Probe tracking.
package action

import (
	"strings"
	"time"

	"github.com/formpilot/pilotd/internal/motion"
	"github.com/formpilot/pilotd/internal/probe"
)

const (
	clickOptionMaxAttempts  = 20
	notFoundRetryWait       = 500 * time.Millisecond
	postMoveSettle          = 100 * time.Millisecond
	postClickSettle         = 500 * time.Millisecond
	verifyRetryMaxAttempts  = 4
	verifyRetrySpacing      = 400 * time.Millisecond
	jiggleRangePx           = 4
	retryJitterPx           = 5
)

// clickOption implements spec §4.4 "CLICK_OPTION container-selector,
// label-text".
func (e *Engine) clickOption(container, label string) error {
	pre, err := e.queryDOM(container, label)
	if err == nil && pre.IsChecked() {
		return nil
	}

	for attempt := 1; attempt <= clickOptionMaxAttempts; attempt++ {
		resp, err := e.queryDOM(container, label)
		if err != nil {
			e.sleep(notFoundRetryWait)
			continue
		}
		if !resp.Found {
			e.sleep(notFoundRetryWait)
			continue
		}
		if resp.IsChecked() {
			return nil
		}

		if !resp.InViewport {
			scrolled, err := e.scrollIntoView(container, label)
			if err != nil {
				continue
			}
			resp = scrolled
		}

		if attempt >= 2 {
			e.jiggle(resp)
			refreshed, err := e.queryDOM(container, label)
			if err == nil && refreshed.IsChecked() {
				return nil
			}
			if err == nil {
				resp = refreshed
			}
		}

		// The Probe's reported cursor is authoritative; overwrite the
		// store before planning the next move.
		e.store.SetCursor(resp.CursorX, resp.CursorY)

		tx, ty := resp.X, resp.Y
		if attempt >= 2 {
			tx += float64(e.rand.Intn(2*retryJitterPx+1) - retryJitterPx)
			ty += float64(e.rand.Intn(2*retryJitterPx+1) - retryJitterPx)
		}
		start := motion.Point{X: resp.CursorX, Y: resp.CursorY}
		if _, err := e.motion.MoveToProfile(start, motion.Point{X: tx, Y: ty}, motion.ProfileNoOvershoot); err != nil {
			continue
		}

		e.sleep(postMoveSettle)
		hover, err := e.queryDOM(container, label)
		if err != nil {
			continue
		}
		if !strings.Contains(strings.ToLower(hover.HoveredLabelText), strings.ToLower(label)) {
			// Hover didn't land on the expected label; don't click this
			// round.
			continue
		}

		e.injector.Send("CLICK")
		e.sleep(postClickSettle)

		if e.verifyChecked(container, label) {
			return nil
		}
	}
	return ErrUnverified
}

// jiggle emits a tiny random nudge to refresh the Probe's cursor tracking
// on retries.
func (e *Engine) jiggle(resp probe.CoordResponse) {
	dx := e.rand.Intn(2*jiggleRangePx+1) - jiggleRangePx
	dy := e.rand.Intn(2*jiggleRangePx+1) - jiggleRangePx
	start := motion.Point{X: resp.CursorX, Y: resp.CursorY}
	target := motion.Point{X: resp.CursorX + float64(dx), Y: resp.CursorY + float64(dy)}
	_, _ = e.motion.MoveToProfile(start, target, motion.ProfileNoOvershoot)
}

// verifyChecked polls up to verifyRetryMaxAttempts times, tolerating
// transient "not found" during a React re-render, requiring checked==true
// to mark success.
func (e *Engine) verifyChecked(container, label string) bool {
	for i := 0; i < verifyRetryMaxAttempts; i++ {
		resp, err := e.queryDOM(container, label)
		if err == nil && resp.Found && resp.IsChecked() {
			return true
		}
		e.sleep(verifyRetrySpacing)
	}
	return false
}
