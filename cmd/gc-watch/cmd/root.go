package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/service/watcher"
	"github.com/oshokin/game-controller/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// interval between polls.
	interval time.Duration

	// rootCmd represents the base command for watching the game.
	rootCmd = &cobra.Command{
		Use:   "gc-watch [server-address]",
		Short: "Log game changes reported by gc-server.",
		Long: `Polls the game controller and logs lifecycle, pause and score changes.

Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return watcher.Run(ctx, &watcher.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				PollInterval:  interval,
			})
		},
	}
)

// Execute runs the gc-watch CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", watcher.DefaultPollInterval, "interval between polls")
}
