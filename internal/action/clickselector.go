// clickselector.go — CLICK_SELECTOR handler: up to 4 attempts
// of scroll-into-view, move+click, verify by checked-state transition when
// the element is checkable, else first-successful-move success.
package action

import (
	"time"

	"github.com/formpilot/pilotd/internal/motion"
)

const (
	clickSelectorMaxAttempts = 4
	clickSelectorSettle      = 200 * time.Millisecond
)

// clickSelector implements spec §4.4 "CLICK_SELECTOR selector".
func (e *Engine) clickSelector(selector string) error {
	for attempt := 1; attempt <= clickSelectorMaxAttempts; attempt++ {
		resp, err := e.queryDOM(selector, "")
		if err != nil {
			continue
		}
		if !resp.Found {
			continue
		}
		priorChecked := resp.Checked

		if !resp.InViewport {
			scrolled, err := e.scrollIntoView(selector, "")
			if err != nil {
				continue
			}
			if !scrolled.InViewport {
				continue
			}
			resp = scrolled
		}

		target := motion.Point{X: resp.X, Y: resp.Y}
		start := motion.Point{X: resp.CursorX, Y: resp.CursorY}
		if _, err := e.motion.MoveTo(start, target); err != nil {
			continue
		}
		e.injector.Send("CLICK")
		e.sleep(clickSelectorSettle)

		if priorChecked != nil {
			verify, err := e.queryDOM(selector, "")
			if err != nil {
				continue
			}
			if verify.Checked == nil || *verify.Checked == *priorChecked {
				continue
			}
			return nil
		}

		// Not a checkable element: success on the first attempt after a
		// successful move.
		return nil
	}
	return ErrUnverified
}
