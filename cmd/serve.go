package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/controller"
	"taskboard/internal/queue"
	"taskboard/internal/repository"
	"taskboard/internal/routes"
	"taskboard/internal/worker"
	"taskboard/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the task REST resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Get())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	// Redis is optional; without it every list request is built from the store.
	var taskCache *cache.TaskCache
	if cfg.CacheEnabled() {
		client, err := cache.Connect(ctx, cfg.RedisURL, cfg.RedisPoolSize)
		if err != nil {
			logger.Error(ctx, "Redis unavailable; serving without cache", "error", err)
		} else {
			taskCache = cache.NewTaskCache(client, cfg.InstanceID, time.Duration(cfg.CacheTTL)*time.Second)
			defer taskCache.Close()
		}
	}

	var publisher *queue.Publisher
	if cfg.EventsEnabled() {
		queue.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPartitions)
		publisher = queue.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
	}

	store := repository.NewTaskStore()
	tasks := controller.NewTaskController(store, taskCache, publisher, cfg.InstanceID)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(tasks, cfg.APIPrefix),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort, "prefix", cfg.APIPrefix, "instance", cfg.InstanceID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.EventsEnabled() {
		// Consumes the change feed of every instance, this one included.
		w := worker.New(worker.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID), taskCache)
		g.Go(func() error { return w.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	logger.Info(ctx, "Server stopped", "tasks", store.Len())
	return err
}
