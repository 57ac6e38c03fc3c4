package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/service/client"
	"github.com/oshokin/game-controller/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the server address from config.
	serverAddress string
	// actor overrides the detected username@hostname.
	actor string

	// rootCmd represents the base command for submitting an action.
	rootCmd = &cobra.Command{
		Use:   "gc-action <type> [args...]",
		Short: "Submit one referee action to gc-server.",
		Long: `Submits a single action to the game controller and prints the outcome.

Examples:
  gc-action pause
  gc-action resume
  gc-action goal home
  gc-action timeout away
  gc-action penalize away 3 playerPushing
  gc-action unpenalize away 3

The request is retried while the server is unreachable.
An illegal action is reported once and exits with non-zero status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := client.ParseAction(args)
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Actor:         actor,
				Action:        a,
			})
		},
	}
)

// Execute runs the gc-action CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&serverAddress, "server", "s", "", "address of gc-server")
	rootCmd.Flags().StringVarP(&actor, "actor", "a", "", "actor recorded in the journal")
}
