package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var configFile string

// NewRootCmd creates the root command for the otpgate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otpgate",
		Short: "otpgate - account registration and session auth service",
		Long: `otpgate serves email/password accounts verified by emailed one-time codes,
bearer sessions with logout revocation, and password reset by emailed link.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if configFile != "" {
				_ = os.Setenv("CONFIG_FILE", configFile)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (overrides CONFIG_FILE)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
