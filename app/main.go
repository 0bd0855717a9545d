package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/neo-comb/app/api"
	"github.com/lysyi3m/neo-comb/app/auth"
	"github.com/lysyi3m/neo-comb/app/cfg"
	"github.com/lysyi3m/neo-comb/app/dashboard"
	"github.com/lysyi3m/neo-comb/app/database"
	"github.com/lysyi3m/neo-comb/app/nasa"
	"github.com/lysyi3m/neo-comb/app/neo"
	"github.com/lysyi3m/neo-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting NEO Comb server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	authenticator, err := auth.New(appCfg.AuthMode, database.NewKVStore(db), appCfg.AuthURL, appCfg.AuthKey, appCfg.NasaTimeout)
	if err != nil {
		slog.Error("Failed to configure authentication", "mode", appCfg.AuthMode, "error", err)
		os.Exit(1)
	}
	slog.Info("Authentication configured", "mode", appCfg.AuthMode)

	presets := neo.NewPresetCache(appCfg.PresetsDir)
	if err := presets.Run(); err != nil {
		slog.Error("Failed to load presets", "dir", appCfg.PresetsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Presets loaded", "count", presets.GetPresetCount(), "dir", appCfg.PresetsDir)

	client := nasa.NewClient(appCfg.NasaBaseURL, appCfg.NasaAPIKey, appCfg.NasaTimeout, appCfg.UserAgent)
	registry := dashboard.NewRegistry(client, time.Now)

	scheduler := tasks.NewScheduler(registry, appCfg.RefreshInterval, appCfg.WorkerCount, 0)
	scheduler.Start()
	defer scheduler.Stop()

	baseURL := cmp.Or(appCfg.BaseUrl, "http://localhost:"+appCfg.Port)
	handler := api.NewHandler(registry, authenticator, auth.NewSessions(), presets, scheduler, baseURL, appCfg.Version)
	httpServer := api.NewHTTPServer(":"+appCfg.Port, handler)

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "base_url", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("NEO Comb server shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
