package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/policytree"
	"github.com/aretw0/policytree/internal/presentation/tui"
	httpAdapter "github.com/aretw0/policytree/pkg/adapters/http"
	"github.com/aretw0/policytree/pkg/adapters/file"
	"github.com/aretw0/policytree/pkg/adapters/memory"
	"github.com/aretw0/policytree/pkg/adapters/redis"
	"github.com/aretw0/policytree/pkg/observability"
	"github.com/aretw0/policytree/pkg/persistence/middleware"
	"github.com/aretw0/policytree/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// storeConfig mirrors the serve flags that select a tree store.
type storeConfig struct {
	Kind      string
	Dir       string
	RedisAddr string
	RedisTTL  time.Duration
}

func buildStore(cfg storeConfig) (ports.TreeStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Kind {
	case "", "memory":
		return memory.NewStore(), noop, nil
	case "file":
		return file.New(cfg.Dir), noop, nil
	case "redis":
		var opts []redis.Option
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		store := redis.New(cfg.RedisAddr, os.Getenv("POLICYTREE_REDIS_PASSWORD"), 0, opts...)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (expected memory, file or redis)", cfg.Kind)
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Exposes prune, flatten and tree storage as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			var cfg storeConfig
			cfg.Kind, _ = cmd.Flags().GetString("store")
			cfg.Dir, _ = cmd.Flags().GetString("store-dir")
			cfg.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
			cfg.RedisTTL, _ = cmd.Flags().GetDuration("redis-ttl")

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			store, closeStore, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logger.Warn("failed to close store", "error", err)
				}
			}()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)

			mws := []middleware.Middleware{
				middleware.NewLoggingMiddleware(logger),
				middleware.NewStoreMetrics(reg).Middleware(),
			}
			if readOnly, _ := cmd.Flags().GetBool("read-only"); readOnly {
				mws = append(mws, middleware.NewReadOnlyMiddleware())
			}
			store = middleware.Chain(mws...)(store)

			engine := policytree.New(
				policytree.WithLogger(logger),
				policytree.WithStore(store),
				policytree.WithHooks(metrics.Hooks()),
			)

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           httpAdapter.NewHandler(engine, httpAdapter.WithLogger(logger), httpAdapter.WithMetrics(reg)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if tui.IsTerminal(os.Stderr) {
				tui.PrintBanner(cmd.ErrOrStderr())
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("starting policytree server", "addr", srv.Addr, "store", cfg.Kind)
				serverErrors <- srv.ListenAndServe()
			}()

			// Channel to listen for interrupt or terminate signals.
			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case sig := <-shutdown:
				logger.Info("shutdown started", "signal", sig.String())

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					logger.Error("graceful shutdown did not complete", "error", err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				logger.Info("policytree server stopped gracefully")
				return nil
			}
		},
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().String("store", "memory", "Tree store: memory, file or redis")
	cmd.Flags().String("store-dir", file.DefaultDir, "Directory for the file store")
	cmd.Flags().String("redis-addr", "localhost:6379", "Redis address for the redis store")
	cmd.Flags().Duration("redis-ttl", 0, "Expiry for trees in the redis store (0 keeps them)")
	cmd.Flags().Bool("read-only", false, "Reject tree writes and deletes")
	return cmd
}
