package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/kubedeck/kubedeck/internal/events"
	"github.com/kubedeck/kubedeck/internal/instrumentation"
	"github.com/kubedeck/kubedeck/internal/kube"
	"github.com/kubedeck/kubedeck/internal/logging"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/watch"
)

// newServeCmd creates the Cobra command for starting the backend server.
func newServeCmd() *cobra.Command {
	var (
		listenAddr     string
		kubeconfigPath string
		defaultShell   string
		logLevel       string
		logFormat      string
		mockMode       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the kubedeck backend server",
		Long: `Start the backend server for the kubedeck cluster browser.

The server binds loopback by default and exposes the resource browsing API,
a WebSocket event feed and Prometheus metrics.

Mock mode serves deterministic fixture data without touching a cluster; it
can also be enabled with ` + kube.EnvUseMock + `=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(os.Stderr, logLevel, logFormat)
			// Route client-go's own logging through the same handler.
			klog.SetSlogLogger(logger)

			instrumentation.Register(prometheus.DefaultRegisterer)

			if !mockMode {
				mockMode = kube.UseMockFromEnv()
			}
			provider := kube.NewProvider(logger, mockMode,
				kube.WithPoolMetrics(instrumentation.PoolMetrics{}),
			)
			if kubeconfigPath != "" {
				provider.SetKubeconfigPath(kubeconfigPath)
			}

			config := server.NewDefaultConfig()
			config.ListenAddr = listenAddr
			config.DefaultShell = defaultShell
			config.MockMode = mockMode

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bus := events.NewBus()
			watches := watch.NewManager(ctx, bus, logger, instrumentation.WatchMetrics{})

			sc, err := server.NewServerContext(ctx,
				server.WithProvider(provider),
				server.WithLogger(logger),
				server.WithConfig(config),
				server.WithBus(bus),
				server.WithWatchManager(watches),
			)
			if err != nil {
				return fmt.Errorf("assembling server context: %w", err)
			}
			defer func() {
				if err := sc.Shutdown(); err != nil {
					logger.Warn("shutdown incomplete", logging.Err(err))
				}
			}()

			if mockMode {
				logger.Info("serving mock fixture data")
			}
			return server.NewServer(sc).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:7771", "HTTP listen address")
	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (default: standard lookup)")
	cmd.Flags().StringVar(&defaultShell, "shell", "/bin/sh", "Default shell for terminal sessions")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	cmd.Flags().BoolVar(&mockMode, "mock", false, "Serve deterministic mock data instead of connecting to clusters")

	return cmd
}
