package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/robotstudio"
	httpAdapter "github.com/aretw0/robotstudio/pkg/adapters/http"
	"github.com/aretw0/robotstudio/pkg/observability"
	"github.com/aretw0/robotstudio/pkg/program"
	"github.com/aretw0/robotstudio/pkg/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [program.yaml]",
	Short: "Start the workspace HTTP server",
	Long: `Serves one workspace over a JSON API: edit blocks and the robot configuration,
start and stop runs, and follow frames on the /events stream.`,
	Args: cobra.MaximumNArgs(1),
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Float64("time-scale", 1, "Multiply every simulated duration (0 runs instantly)")
	addStoreFlags(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	port, _ := cmd.Flags().GetString("port")
	scale, _ := cmd.Flags().GetFloat64("time-scale")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(observability.DefaultNamespace, reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	streams := httpAdapter.NewStreamManager(logger)

	opts := []robotstudio.Option{
		robotstudio.WithLogger(logger),
		robotstudio.WithTimeScale(scale),
		robotstudio.WithLifecycleHooks(streams.Hooks()),
		robotstudio.WithLifecycleHooks(metrics.Hooks()),
		robotstudio.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	store, err := openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, robotstudio.WithSnapshotStore(store))
	}
	engine := robotstudio.New(opts...)
	defer engine.Close()

	wsOpts := []workspace.Option{workspace.WithLogger(logger)}
	if len(args) > 0 {
		prog, err := program.Load(args[0])
		if err != nil {
			return err
		}
		wsOpts = append(wsOpts, workspace.WithProgram(prog))
	}
	ws := workspace.New(engine, wsOpts...)

	// Cancelled on shutdown so open event streams let go of their connections.
	baseCtx, cancelStreams := context.WithCancel(cmd.Context())
	defer cancelStreams()

	srv := &http.Server{
		Addr: ":" + port,
		Handler: httpAdapter.NewHandler(ws,
			httpAdapter.WithStreams(streams),
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	out := cmd.OutOrStdout()
	go func() {
		fmt.Fprintf(out, "Starting RobotStudio Server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		fmt.Fprintf(out, "\nStart shutdown... Signal: %v\n", sig)
		cancelStreams()
		engine.Close()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Fprintln(out, "RobotStudio Server stopped gracefully")
	}
	return nil
}
