package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/riskboard/internal/config"
	"github.com/alfredjeanlab/riskboard/internal/dashboard"
	"github.com/alfredjeanlab/riskboard/internal/events"
	"github.com/alfredjeanlab/riskboard/internal/export"
	"github.com/alfredjeanlab/riskboard/internal/seed"
	"github.com/alfredjeanlab/riskboard/internal/server"
	"github.com/alfredjeanlab/riskboard/internal/store"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the dashboard HTTP and gRPC servers",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create a client connection.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Open the store.
		st, err := openStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Seed an empty store.
		if cfg.Seed {
			if err := runSeed(context.Background(), st, cfg.SeedFile, logger); err != nil {
				st.Close()
				return err
			}
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = events.NoopPublisher{}
			logger.Info("events disabled (RISK_NATS_URL not set)")
		}

		// Create server components.
		riskServer := server.NewRiskServer(dashboard.New(st), publisher, logger)
		grpcServer := server.NewGRPCServer(riskServer)

		var limiter *server.RateLimiter
		var rdb *redis.Client
		if cfg.RedisAddr != "" {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			limiter = server.NewRateLimiter(rdb, cfg.RateLimit, cfg.RateWindow, logger)
			logger.Info("rate limiting enabled", "redis_addr", cfg.RedisAddr, "limit", cfg.RateLimit, "window", cfg.RateWindow)
		}

		// Start export scheduler if any destinations are configured.
		var scheduler *export.Scheduler
		if dests := exportDestinations(cfg, logger); len(dests) > 0 {
			scheduler = export.NewScheduler(st, dests, cfg.ExportInterval, riskServer.Publisher(), logger)
			riskServer.SetExporter(scheduler)
			scheduler.Start()
			logger.Info("export scheduler started", "interval", cfg.ExportInterval)
		}

		// Start gRPC listener.
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			if scheduler != nil {
				scheduler.Stop()
			}
			publisher.Close()
			st.Close()
			return err
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		// Start HTTP server.
		httpServer := &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: riskServer.NewHTTPHandler(server.HTTPOptions{
				AuthToken: cfg.AuthToken,
				Limiter:   limiter,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		logger.Info("riskboard server started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
		)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("export scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if rdb != nil {
			if err := rdb.Close(); err != nil {
				logger.Error("error closing redis client", "err", err)
			}
		}
		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// exportDestinations builds the configured export destinations. A
// destination that fails to initialize is logged and skipped.
func exportDestinations(cfg *config.Config, logger *slog.Logger) []export.Destination {
	var dests []export.Destination

	if cfg.ExportS3Bucket != "" {
		s3Dest, err := export.NewS3Destination(
			context.Background(),
			cfg.ExportS3Bucket,
			cfg.ExportS3Key,
			cfg.ExportS3Region,
			cfg.ExportS3Endpoint,
		)
		if err != nil {
			logger.Error("failed to create S3 export destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("export S3 destination enabled", "bucket", cfg.ExportS3Bucket, "key", cfg.ExportS3Key)
		}
	}

	if cfg.ExportGitRepo != "" {
		dests = append(dests, export.NewGitDestination(cfg.ExportGitRepo, cfg.ExportGitFile, cfg.ExportGitBranch))
		logger.Info("export git destination enabled", "repo", cfg.ExportGitRepo, "file", cfg.ExportGitFile)
	}

	return dests
}

// runSeed applies the fixture at path (or the embedded default) when the
// store has no processes yet.
func runSeed(ctx context.Context, st store.Store, path string, logger *slog.Logger) error {
	fx, err := seed.Load(path)
	if err != nil {
		return err
	}
	applied, err := seed.Apply(ctx, st, fx)
	if err != nil {
		return err
	}
	if applied {
		logger.Info("store seeded",
			"processes", len(fx.Processes),
			"events", len(fx.Events),
			"history", len(fx.History),
		)
	} else {
		logger.Info("store already populated, skipping seed")
	}
	return nil
}
