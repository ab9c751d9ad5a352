package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docstruct/internal/api"
	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/pipeline"
	"github.com/dgallion1/docstruct/internal/scoring"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cm, err := config.NewManager(os.Getenv("DOCSTRUCT_CONFIG"))
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	cfg := cm.Get()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)

	// Default weights follow the config file while running.
	if file := cm.ConfigFile(); file != "" {
		cm.OnChange(func(c config.Config) {
			orch.SetDefaultWeights(c.Weights)
			log.Info("reloaded weights", "file", file, weightsAttr(c.Weights))
		})
		cm.WatchConfig()
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docstruct", "port", cfg.Port, "workers", cfg.WorkerCount, "config_file", cm.ConfigFile())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func weightsAttr(w scoring.Weights) slog.Attr {
	return slog.Group("weights",
		slog.Float64("font_factor", w.FontFactor),
		slog.Float64("color_factor", w.ColorFactor),
		slog.Float64("size_factor", w.SizeFactor),
		slog.Float64("bold_bonus", w.BoldBonus),
		slog.Float64("upper_bonus", w.UpperBonus),
	)
}
