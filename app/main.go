package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/feed-cache/app/api"
	"github.com/lysyi3m/feed-cache/app/cache"
	"github.com/lysyi3m/feed-cache/app/cfg"
	"github.com/lysyi3m/feed-cache/app/composite"
	"github.com/lysyi3m/feed-cache/app/database"
	"github.com/lysyi3m/feed-cache/app/feed"
	"github.com/lysyi3m/feed-cache/app/local"
	"github.com/lysyi3m/feed-cache/app/remote"
	"github.com/lysyi3m/feed-cache/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		return nil
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Feed Cache", "version", appCfg.Version, "feed_url", appCfg.FeedURL, "format", appCfg.FeedFormat)

	feedURL, err := url.Parse(appCfg.FeedURL)
	if err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}

	store, err := database.Open(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	var imageStore database.ImageDataStore = store
	if appCfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisImageDataStore(appCfg.RedisAddr, appCfg.ImageTTL)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		imageStore = redisStore
	}

	httpClient := remote.NewNetHTTPClient(&http.Client{}, appCfg.UserAgent, appCfg.HTTPTimeout)

	var remoteFeedLoader feed.Loader
	if appCfg.FeedFormat == cfg.FeedFormatSyndication {
		remoteFeedLoader = remote.NewSyndicationFeedLoader(feedURL, httpClient, feed.NewParser())
	} else {
		remoteFeedLoader = remote.NewFeedLoader(feedURL, httpClient)
	}

	localFeedLoader := local.NewFeedLoader(store, time.Now)
	localImageLoader := local.NewImageDataLoader(imageStore)
	remoteImageLoader := remote.NewImageDataLoader(httpClient)

	// Feed: remote first, cached on success, local cache when remote fails.
	feedLoader := composite.NewFeedLoaderWithFallback(
		composite.NewFeedLoaderCacheDecorator(remoteFeedLoader, localFeedLoader),
		localFeedLoader,
	)

	// Images: local cache first, remote when not cached.
	imageLoader := composite.NewImageDataLoaderWithFallback(
		localImageLoader,
		composite.NewImageDataLoaderCacheDecorator(remoteImageLoader, localImageLoader),
	)

	scheduler := tasks.NewScheduler(feedLoader, localFeedLoader,
		appCfg.RefreshInterval, appCfg.ValidateInterval, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	selfLink := cmp.Or(appCfg.BaseUrl, "http://localhost:"+appCfg.Port) + "/feed.rss"
	generator := feed.NewGenerator("Feed Cache", selfLink, appCfg.Version)

	handler := api.NewHandler(feedLoader, imageLoader, localFeedLoader, scheduler, generator)
	router := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.HTTPTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", appCfg.BaseUrl)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Loaders are disposed before the store closes so late store callbacks
	// have nowhere to deliver.
	feedLoader.Dispose()
	imageLoader.Dispose()

	slog.Info("Feed Cache shutdown complete")

	return nil
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
