package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ec2lister/internal/api"
	"ec2lister/internal/config"
	awsprovider "ec2lister/internal/providers/aws"
	"ec2lister/pkg/logging"
)

func main() {
	var addr string
	var configPath string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "ec2lister",
		Short: "HTTP API that lists EC2 instances in a region with sorting and pagination",
		Run: func(cmd *cobra.Command, args []string) {
			logger := logging.NewDefaultLogger()

			cfg, err := config.Load(configPath, logger)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}

			// Flags override the config file
			if addr != "" {
				cfg.ListenAddr = addr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger.SetLevel(logging.StringToLogLevel(cfg.LogLevel))

			ctx := context.Background()
			instanceService, err := awsprovider.NewInstanceServiceWithDefaultConfig(ctx)
			if err != nil {
				log.Fatalf("Failed to initialize the AWS service: %v", err)
			}

			app := fiber.New()
			server := api.NewServer(instanceService, logger, cfg)
			server.RegisterRoutes(app)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("Starting EC2 lister API on %s", cfg.ListenAddr)
				return app.Listen(cfg.ListenAddr)
			})
			g.Go(func() error {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				select {
				case sig := <-sigCh:
					logger.Info("Received signal %s, shutting down", sig)
					return app.Shutdown()
				case <-gctx.Done():
					return nil
				}
			})

			if err := g.Wait(); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		},
	}

	rootCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides the config file, default :8080)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to an optional HCL configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
