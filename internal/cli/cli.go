// Package cli is the gateway's command tree: cobra "serve" and "version"
// subcommands, generalizing the teacher's pkg/cmd rootCmd/init pattern (and
// dublyo-dockerizer's signal-driven serve command) into the process
// entrypoint SPEC_FULL.md §1 calls for.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dockermcp/gateway/internal/auth"
	"github.com/dockermcp/gateway/internal/config"
	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/executor"
	"github.com/dockermcp/gateway/internal/fanout"
	"github.com/dockermcp/gateway/internal/llmplan"
	"github.com/dockermcp/gateway/internal/registry"
	"github.com/dockermcp/gateway/internal/router"
	"github.com/dockermcp/gateway/internal/transport"
)

// Version is set at build time via -ldflags; left as "dev" otherwise.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:          "mcp-docker-gateway",
	Short:        "MCP gateway exposing Docker Engine and Swarm over JSON-RPC",
	SilenceUsage: true,
}

func init() {
	rootCmd.SetOut(color.Output)
	rootCmd.SetErr(color.Error)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the gateway version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the gateway HTTP server until interrupted",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogFormat)

	adapter, err := dockeradapter.New(dockeradapter.Options{
		Host:      cfg.DockerHost,
		TLSCA:     cfg.DockerTLSCA,
		TLSCert:   cfg.DockerTLSCert,
		TLSKey:    cfg.DockerTLSKey,
		TLSVerify: cfg.DockerTLSVerify,
	})
	if err != nil {
		return fmt.Errorf("connect to docker daemon: %w", err)
	}
	defer adapter.Close()

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	caps, err := adapter.Capabilities(startupCtx)
	cancel()
	if err != nil {
		log.Warn("could not probe docker daemon capabilities at startup; swarm tools will be unavailable", "error", err)
		caps = map[dockeradapter.Capability]bool{dockeradapter.CapEngine: true}
	}

	fc := fanout.NewCoordinator(int64(cfg.MaxConcurrentDockerCalls))

	builder := registry.NewBuilder()
	registry.RegisterDockerTools(builder, fc, cfg.FanoutMaxParallel)
	registry.RegisterDockerPrompts(builder)
	if cfg.OpenAIAPIKey != "" {
		planner, err := llmplan.NewPlanner(cfg.OpenAIAPIKey, "")
		if err != nil {
			log.Warn("compose_plan tool disabled: could not construct llm planner", "error", err)
		} else {
			llmplan.RegisterTool(builder, planner)
			log.Info("compose_plan tool enabled")
		}
	}

	reg, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build tool registry: %w", err)
	}

	exec := executor.New(reg, adapter, caps, cfg.DefaultDeadline, cfg.MaxDeadline)
	rt := router.New(reg, exec, adapter, caps)
	authn := auth.New(cfg.AccessToken)

	handler := transport.New(transport.Config{
		MaxRequestBytes: cfg.MaxRequestBytes,
		Streaming:       cfg.TransportStreaming,
	}, authn, rt, adapter, log)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	serverErrs := make(chan error, 1)
	go func() {
		log.Info("gateway listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrs <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrs:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.CancelGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
