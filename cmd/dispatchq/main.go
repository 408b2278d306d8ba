package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	benchcmd "github.com/rzbill/dispatchq/internal/cmd/bench"
	serverrun "github.com/rzbill/dispatchq/internal/cmd/server"
	cfgpkg "github.com/rzbill/dispatchq/internal/config"
	pebblestore "github.com/rzbill/dispatchq/internal/storage/pebble"
	logpkg "github.com/rzbill/dispatchq/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// Respect DISPATCHQ_LOG_LEVEL for both CLI and server start output.
	level := os.Getenv("DISPATCHQ_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger.
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "dispatchq",
		Short: "dispatchq runtime CLI",
		Long:  "dispatchq is a single-binary key-partitioned dispatch runtime. This CLI manages the server and basic operations.",
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newBenchCommand())
	rootCmd.AddCommand(newNamespaceCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the dispatchq server (gRPC health + HTTP ops gateway)",
		Aliases: []string{"server", "start"},
		RunE: func(cmd *cobra.Command, args []string) error {
			grpcAddr, _ := cmd.Flags().GetString("grpc")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			audit, _ := cmd.Flags().GetBool("audit")
			auditDir, _ := cmd.Flags().GetString("audit-dir")
			if audit && auditDir == "" {
				auditDir = cfgpkg.DefaultDataDir()
			}
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			workerPoolSize, _ := cmd.Flags().GetInt("workers")
			namespaceName, _ := cmd.Flags().GetString("namespace")

			mode := pebblestore.FsyncModeAlways
			switch fsyncMode {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			if logLevel != "" {
				_ = os.Setenv("DISPATCHQ_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("DISPATCHQ_LOG_FORMAT", logFormat)
			}

			cfg := cfgpkg.Default()
			cfgpkg.FromEnv(&cfg)
			if auditDir != "" {
				cfg.AuditDataDir = auditDir
			}
			if workerPoolSize > 0 {
				cfg.WorkerPoolSize = workerPoolSize
			}
			if namespaceName != "" {
				cfg.DefaultNamespaceName = namespaceName
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				GRPCAddr: grpcAddr,
				HTTPAddr: httpAddr,
				Fsync:    mode,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs to flush before the process exits
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	cmd.Flags().String("grpc", ":50051", "gRPC listen address (health checks only)")
	cmd.Flags().String("http", ":8080", "HTTP listen address (publish/subscribe/audit gateway)")
	cmd.Flags().String("fsync", "always", "Fsync mode for the audit trail: always|interval|never")
	cmd.Flags().Bool("audit", false, "Enable the delivery-audit sidecar, writing to the OS-default data directory unless --audit-dir is set")
	cmd.Flags().String("audit-dir", os.Getenv("DISPATCHQ_AUDIT_DATA_DIR"), "Audit trail data directory (implies --audit; empty disables the sidecar)")
	cmd.Flags().String("log-level", os.Getenv("DISPATCHQ_LOG_LEVEL"), "Log level: debug|info|warn|error")
	cmd.Flags().String("log-format", os.Getenv("DISPATCHQ_LOG_FORMAT"), "Log format: text|json (default text)")
	cmd.Flags().Int("workers", 0, "Worker pool size backing every namespace (0 keeps the config default)")
	cmd.Flags().String("namespace", "", "Default namespace name (empty keeps the config default)")
	return cmd
}

func newBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure dispatch fan-out cost across consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			consumers, _ := cmd.Flags().GetInt("consumers")
			values, _ := cmd.Flags().GetInt("values")
			workers, _ := cmd.Flags().GetInt("workers")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			result, err := benchcmd.Run(ctx, benchcmd.Options{
				ConsumersCount: consumers,
				ValuesCount:    values,
				WorkerPoolSize: workers,
			})
			if err != nil {
				return fmt.Errorf("bench error: %w", err)
			}

			fmt.Printf("consumers=%d values=%d elapsed=%s total_deliveries=%d duplicate_or_miss=%d\n",
				result.ConsumersCount, result.ValuesCount, result.Elapsed, result.TotalDeliveries, result.DuplicateOrMiss)
			return nil
		},
	}
	cmd.Flags().Int("consumers", 8, "Number of consumers subscribed to the benchmark key")
	cmd.Flags().Int("values", 10_000, "Number of values posted concurrently")
	cmd.Flags().Int("workers", 8, "Worker pool size backing the benchmark")
	return cmd
}

func newNamespaceCommand() *cobra.Command {
	nsCmd := &cobra.Command{Use: "namespace", Short: "Namespace operations against a running server"}
	nsCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a namespace on the configured server",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			fmt.Printf("use: curl -X POST %s/v1/ns/create -d '{\"namespace\":%q}'\n", apiURL(), name)
			return nil
		},
	}
	nsCreateCmd.Flags().String("name", "default", "Namespace name")
	nsCmd.AddCommand(nsCreateCmd)
	return nsCmd
}

func apiURL() string {
	if v := os.Getenv("DISPATCHQ_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
