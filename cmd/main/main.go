package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "net/http/pprof"

	"vaxtlistan-service/internal/api"
	"vaxtlistan-service/internal/availability"
	"vaxtlistan-service/internal/catalog"
	"vaxtlistan-service/internal/config"
	"vaxtlistan-service/internal/inventory"
	"vaxtlistan-service/internal/resolve"
	serverhttp "vaxtlistan-service/server/http"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	loader := catalog.Loader(func(ctx context.Context) ([]*catalog.Entry, error) {
		return nil, nil
	})
	if cfg.CatalogFile != "" {
		loader = catalog.FileLoader(cfg.CatalogFile)
	}
	cache := catalog.NewCache(loader)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	memStore, err := cache.Store(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("catalog load")
	}
	if memStore.Len() == 0 {
		logger.Warn().Msg("catalog is empty; searches will return nothing")
	} else {
		logger.Info().Int("entries", memStore.Len()).Msg("catalog loaded")
	}

	store := catalog.WithRetry(memStore, 3, 200*time.Millisecond)
	stock := inventory.NewMemStore()
	if cfg.InventoryFile != "" {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 2*time.Minute)
		n, err := inventory.LoadFile(seedCtx, cfg.InventoryFile, stock)
		cancelSeed()
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.InventoryFile).Msg("inventory load")
		}
		logger.Info().Int("rows", n).Msg("inventory loaded")
	}
	resolver := resolve.NewResolver(store, resolve.DefaultParams(), logger)
	searcher := availability.NewSearcher(store, stock, resolver, logger)

	h := api.New(cfg, logger, store, stock, searcher, resolver)
	r := serverhttp.NewRouter(cfg, logger, h)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
