// Package cmd implements the relay command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-relay/internal/config"
	"github.com/telhawk-systems/telhawk-relay/internal/logging"
)

// NewRootCmd builds the relay command tree.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "relay",
		Short: "TelHawk Relay",
		Long: `relay hosts timer-triggered routes that build a payload, transform it
with XSLT and hand the result to a sink (log, NATS or Redis).

Without configured routes it runs the built-in route: every second the
document <item>A</item> is transformed by xslt/cheese.xsl and logged.`,
		Version:      "0.1.0",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./relay.yaml, /etc/relay/relay.yaml)")

	load := func() (*config.Config, error) {
		return config.Load(cfgFile)
	}

	root.AddCommand(
		newRunCmd(load),
		newRoutesCmd(load),
		newTransformCmd(load),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

type configLoader func() (*config.Config, error)

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format).
		With(logging.Service("telhawk-relay"))
}
