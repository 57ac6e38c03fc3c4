package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mitchellh/go-ps"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	api "github.com/oshokin/game-controller/internal/api/grpc/controller"
	"github.com/oshokin/game-controller/internal/api/ws"
	"github.com/oshokin/game-controller/internal/config"
	"github.com/oshokin/game-controller/internal/logger"
	"github.com/oshokin/game-controller/internal/repository/journal"
	repository "github.com/oshokin/game-controller/internal/repository/state"
	"github.com/oshokin/game-controller/internal/telemetry"
	"github.com/oshokin/game-controller/internal/version"
)

// Options controls the gc-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// MonitorAddress overrides the monitor WebSocket address.
	MonitorAddress string
	// StateFile specifies the path to persist the game snapshot.
	StateFile string
	// JournalFile overrides the SQLite journal path.
	JournalFile string
	// SingleInstance refuses to start when another gc-server is running.
	SingleInstance bool
}

// ServiceName is the name gc-server reports to logs and traces.
const ServiceName = "gc-server"

const (
	// monitorPath is where the monitor WebSocket is served.
	monitorPath = "/ws"
	// shutdownTimeout bounds the final snapshot flush and HTTP shutdown.
	shutdownTimeout = 5 * time.Second
)

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server, the monitor and the clock loop, and blocks until
// ctx is canceled or the server stops.
//
//nolint:funlen,cyclop // Startup and shutdown ordering reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, ServiceName)

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	applyOverrides(settings, opts)

	if opts.SingleInstance {
		if err = ensureSingleInstance(ps.Processes, currentExecutable(), os.Getpid()); err != nil {
			return err
		}
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, ServiceName, settings.OtelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if shutdownErr := shutdownTracing(shutdownCtx); shutdownErr != nil {
			logger.WarnKV(ctx, "Failed to flush traces", "error", shutdownErr)
		}
	}()

	serviceOptions := []serviceOption{withTracer(telemetry.Tracer(nil))}

	if settings.JournalFile != "" {
		store, openErr := journal.Open(ctx, settings.JournalFile)
		if openErr != nil {
			return fmt.Errorf("open journal: %w", openErr)
		}

		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				logger.WarnKV(ctx, "Failed to close journal", "error", closeErr)
			}
		}()

		serviceOptions = append(serviceOptions, withJournal(store))
	}

	svc, err := newService(ctx, settings.Params(), repository.NewFileRepository(settings.StateFile), serviceOptions...)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	hub := ws.NewHub(svc, settings.MonitorOrigins)
	svc.Subscribe(hub.Broadcast)

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	api.RegisterControllerServiceServer(grpcServer, api.NewServer(svc))

	monitor, err := startMonitor(ctx, settings.MonitorAddress, hub)
	if err != nil {
		_ = lis.Close()

		return err
	}

	go runClock(ctx, svc.Advance, settings.TickInterval)

	logger.InfoKV(ctx, "Game controller listening",
		append(version.KV(),
			"listen_address", listenAddress,
			"monitor_address", settings.MonitorAddress,
			"state_file", settings.StateFile,
			"journal_file", settings.JournalFile)...)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err = grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if monitor != nil {
		hub.Close()

		if shutdownErr := monitor.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.WarnKV(ctx, "Failed to stop monitor", "error", shutdownErr)
		}
	}

	if err = svc.Flush(shutdownCtx); err != nil {
		return fmt.Errorf("flush game: %w", err)
	}

	logger.Info(ctx, "Game controller stopped")

	return nil
}

// applyOverrides copies command line overrides into settings.
func applyOverrides(settings *config.Config, opts *Options) {
	if opts.StateFile != "" {
		settings.StateFile = opts.StateFile
	}

	if opts.JournalFile != "" {
		settings.JournalFile = opts.JournalFile
	}

	if opts.MonitorAddress != "" {
		settings.MonitorAddress = opts.MonitorAddress
	}
}

// startMonitor serves the monitor WebSocket on address. An empty address
// disables it and returns a nil server.
func startMonitor(ctx context.Context, address string, hub *ws.Hub) (*http.Server, error) {
	if address == "" {
		return nil, nil //nolint:nilnil // A disabled monitor is not an error.
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen monitor on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle(monitorPath, hub)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		if serveErr := server.Serve(lis); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Monitor stopped", "error", serveErr)
		}
	}()

	return server, nil
}

// runClock calls advance with the tick time every interval until ctx is done.
func runClock(ctx context.Context, advance func(context.Context, time.Time), interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	advance(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			advance(ctx, now)
		}
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
