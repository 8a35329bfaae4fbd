// fillfield.go — FILL_FIELD handler: up to 4 attempts of
// scroll-into-view, move+click to focus, clear+type, verify by value
// prefix match.
package action

import (
	"strings"
	"time"

	"github.com/formpilot/pilotd/internal/motion"
	"github.com/formpilot/pilotd/internal/probe"
)

const (
	fillFieldMaxAttempts = 4
	clickSettleAfter     = 250 * time.Millisecond
	focusRetrySettle     = 200 * time.Millisecond
	clearChordSettle     = 50 * time.Millisecond
	postTypeSettle       = 200 * time.Millisecond
	valuePrefixLen       = 20
)

// fillField clicks the target field, clears it, types the text, and
// verifies the Probe-reported value before returning.
func (e *Engine) fillField(selector, text string) error {
	for attempt := 1; attempt <= fillFieldMaxAttempts; attempt++ {
		resp, err := e.queryDOM(selector, "")
		if err != nil {
			continue
		}
		if !resp.Found {
			continue
		}

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
		e.sleep(clickSettleAfter)

		resp, err = e.queryDOM(selector, "")
		if err != nil {
			continue
		}
		if !resp.Focused {
			// One re-move + re-click, per spec step 4.
			if _, err := e.motion.MoveTo(motion.Point{X: resp.CursorX, Y: resp.CursorY}, target); err != nil {
				continue
			}
			e.injector.Send("CLICK")
			e.sleep(clickSettleAfter)

			resp, err = e.queryDOM(selector, "")
			if err != nil {
				continue
			}
			if !resp.Focused {
				continue
			}
		}

		e.injector.Send("COMBO,ctrl+a")
		e.sleep(clearChordSettle)
		for _, step := range e.typingSteps(text) {
			e.injector.Send(step.Command)
			if step.SleepAfter > 0 {
				e.sleep(step.SleepAfter)
			}
		}
		e.sleep(postTypeSettle)

		resp, err = e.queryDOM(selector, "")
		if err != nil {
			continue
		}
		if valueMatches(resp, text) {
			return nil
		}
	}
	return ErrUnverified
}

// valueMatches implements spec §4.4 step 6: success if either side
// (case-folded, trimmed) begins with the first 20 characters of the
// other.
func valueMatches(resp probe.CoordResponse, target string) bool {
	got := strings.ToLower(strings.TrimSpace(resp.Value))
	want := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(got, prefix(want, valuePrefixLen)) ||
		strings.HasPrefix(want, prefix(got, valuePrefixLen))
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
