package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"vendex/artifacts"
	"vendex/auth"
	"vendex/config"
	"vendex/crypto"
	"vendex/db"
	"vendex/handlers"
	"vendex/inventory"
	"vendex/ledger"
	"vendex/logger"
	"vendex/machines"
	"vendex/reports"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the optional JSON config file")
	generateQR := flag.Bool("generate-qr", false, "regenerate the QR code of every machine and exit")
	generateChart := flag.Bool("generate-chart", false, "render the popularity chart and exit")
	flag.Parse()

	if err := run(*configPath, *generateQR, *generateChart); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string, generateQR, generateChart bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Initialize(cfg.LogLevel, !cfg.Production); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Log.Sync()

	for _, dir := range []string{cfg.QRDir, filepath.Dir(cfg.ChartPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	ctx := context.Background()
	store, err := db.Open(ctx, cfg.DatabaseDSN, cfg.SeedDemo)
	if err != nil {
		return err
	}
	defer store.Close()

	keys := crypto.DeriveKeys(cfg.SessionKey)

	qr := artifacts.NewQRFiles(cfg.QRDir, cfg.BaseURL)
	reportSvc := reports.NewService(store)
	charts := reports.NewChartRefresher(reportSvc, artifacts.NewPopularityChart(cfg.ChartPath))
	machineSvc := machines.NewService(store, qr)

	// One-shot modes regenerate artifacts and exit.
	if generateQR {
		n, err := machineSvc.RegenerateQR(ctx)
		logger.Log.Infow("qr generation finished", "generated", n, "dir", cfg.QRDir)
		return err
	}
	if generateChart {
		return charts.Refresh(ctx)
	}

	renderer, err := handlers.NewTemplateRenderer(cfg.TemplatesDir)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.Options{
		AppName:             cfg.AppName,
		StaticDir:           cfg.StaticDir,
		ShelfLifeDays:       cfg.ShelfLifeDays,
		InventoryExpiryDays: cfg.InventoryExpiryDays,
		LowStockThreshold:   cfg.LowStockThreshold,
		RegisterCaptcha:     cfg.RegisterCaptcha,
		CSRF:                handlers.CSRFMiddleware(keys.CSRF, cfg.Production),
	}, handlers.Deps{
		Auth:      auth.NewService(store),
		Sessions:  auth.NewSessions(keys, cfg.SessionMaxAge, cfg.Production),
		Tokens:    auth.NewTokens(keys.Token, cfg.TokenTTL),
		Users:     store,
		Inventory: inventory.NewService(store),
		Ledger:    ledger.NewService(store, charts),
		Reports:   reportSvc,
		Charts:    charts,
		Machines:  machineSvc,
		Renderer:  renderer,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infow("HTTP server listening", "addr", cfg.Addr(), "app", cfg.AppName, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
