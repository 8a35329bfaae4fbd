// safego.go — Panic-recovering goroutine launcher.
package util

import (
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// SafeGo launches fn in a goroutine with deferred panic recovery.
// On panic: logs the stack trace. Does NOT os.Exit — background panics
// (injector consumer, injector diagnostic reader, automation runs) should be survivable
// so the daemon stays up for a human to intervene with /automation + /start.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("recovered panic in background goroutine")
			}
		}()
		fn()
	}()
}
