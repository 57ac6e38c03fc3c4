package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/service/server"
	"github.com/oshokin/game-controller/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile overrides the snapshot path from config.
	stateFile string
	// journalFile overrides the SQLite journal path from config.
	journalFile string
	// monitorAddress overrides the monitor WebSocket address from config.
	monitorAddress string
	// singleInstance refuses to start next to another gc-server.
	singleInstance bool

	// rootCmd represents the base command for running the game controller.
	rootCmd = &cobra.Command{
		Use:   "gc-server [listen-address]",
		Short: "Run the game controller and own the match state.",
		Long: `Starts the gRPC game controller that owns the single match state.

Actions from referees are checked against the rules and applied one at a time.
The clock loop advances the match timers unless the game is paused.
Only the port from ServerAddress config is used for listening (e.g., :50051).
Listen address can be provided as argument to override config (e.g., :9090).
The game is persisted to a JSON snapshot for recovery across restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:     configPath,
				ListenAddress:  listenAddress,
				MonitorAddress: monitorAddress,
				StateFile:      stateFile,
				JournalFile:    journalFile,
				SingleInstance: singleInstance,
			})
		},
	}
)

// Execute runs the gc-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "path to persist the game snapshot")
	rootCmd.Flags().StringVarP(&journalFile, "journal", "j", "", "path to the SQLite action journal")
	rootCmd.Flags().StringVarP(&monitorAddress, "monitor", "m", "", "address of the monitor WebSocket")
	rootCmd.Flags().BoolVar(&singleInstance, "single-instance", false, "refuse to start when gc-server is already running")
}
