package main

import (
	"log"

	"github.com/volumate/volumate/internal/config"
	"github.com/volumate/volumate/internal/db"
	"github.com/volumate/volumate/internal/foodapi"
	"github.com/volumate/volumate/internal/logging"
	"github.com/volumate/volumate/internal/resolver"
	"github.com/volumate/volumate/internal/scan"
	"github.com/volumate/volumate/internal/store"
	"github.com/volumate/volumate/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	// A failed init is fatal to persistence: refuse to start rather than
	// run with a store that cannot be trusted.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	productStore := store.NewProductStore(database)
	remote := foodapi.NewClient(cfg.FoodAPIBaseURL)
	productResolver := resolver.NewResolver(productStore, remote, logger)
	session := scan.NewSession(cfg.ScanFrame)

	logger.Info("scan session configured",
		"frame_top", cfg.ScanFrame.Top,
		"frame_left", cfg.ScanFrame.Left,
		"frame_width", cfg.ScanFrame.Width,
		"frame_height", cfg.ScanFrame.Height,
	)

	server := web.NewServer(productResolver, session, remote, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
