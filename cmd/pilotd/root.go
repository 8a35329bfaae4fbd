// root.go — the cobra root command, grounded on
// the pack's helixml-helix/api/cmd/helix root+subcommand shape.
package main

import (
	"github.com/spf13/cobra"

	"github.com/formpilot/pilotd/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pilotd",
		Short: "pilotd drives the Injector to fill web forms under Probe supervision",
		Long: "pilotd is the Coordinator: an HTTP control plane, motion planner, " +
			"and verify-before-proceed action engine driving a USB HID Injector.",
	}

	serve := newServeCmd()
	root.AddCommand(serve)
	root.AddCommand(newVersionCmd())

	// With no subcommand, pilotd runs serve with the same flags.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

// bindServeFlags registers the flags SPEC_FULL.md's configuration table
// names, each overriding its environment-resolved default only when set.
func bindServeFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.SerialDevice, "serial-device", cfg.SerialDevice, "path to the Injector's serial character device")
	cmd.Flags().StringVar(&cfg.SerialAutodetectSubstr, "serial-autodetect", cfg.SerialAutodetectSubstr, "scan serial ports for one matching this substring")
	cmd.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "serial baud rate")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "control plane listen address")
	cmd.Flags().Float64Var(&cfg.ViewportMarginPx, "viewport-margin", cfg.ViewportMarginPx, "viewport safety margin in pixels")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
}
