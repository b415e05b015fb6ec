package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/sidecomm"
	"github.com/aretw0/sidecomm/internal/config"
	"github.com/aretw0/sidecomm/internal/logging"
	"github.com/aretw0/sidecomm/internal/presentation/tui"
	httpAdapter "github.com/aretw0/sidecomm/pkg/adapters/http"
	redisAdapter "github.com/aretw0/sidecomm/pkg/adapters/redis"
	"github.com/aretw0/sidecomm/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comm gateway server",
	Long:  `Starts the kernel-side comm gateway, exposing form cells and the variable explorer over HTTP, SSE and WebSocket.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetString("port")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if port != "" {
			cfg.Listen = ":" + port
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			fmt.Printf("Error in config: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(level)
		slog.SetDefault(logger)

		var namespace ports.Namespace
		if cfg.Redis.Addr != "" {
			opts := []redisAdapter.Option{}
			if cfg.Redis.Prefix != "" {
				opts = append(opts, redisAdapter.WithPrefix(cfg.Redis.Prefix))
			}
			namespace = redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
			logger.Info("using redis namespace", "addr", cfg.Redis.Addr)
		}

		kernelOpts := []sidecomm.Option{sidecomm.WithLogger(logger)}
		if namespace != nil {
			kernelOpts = append(kernelOpts, sidecomm.WithNamespace(namespace))
		}
		kernel := sidecomm.New(kernelOpts...)

		handler := httpAdapter.NewHandler(kernel.Bridge(), kernel.Comms(), kernel.Namespace())

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: handler,
		}

		tui.PrintBanner()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting sidecomm gateway on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("sidecomm gateway stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides config)")
}
