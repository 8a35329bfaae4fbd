// Command pilotd is the Coordinator daemon: it drives the
// Injector over a serial link, planning motion and verifying DOM changes
// reported by the browser-side Probe over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Error().Err(err).Msg("pilotd exited with error")
		os.Exit(1)
	}
}
