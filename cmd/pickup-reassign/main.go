package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/app"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewAdapter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Infow("application starting",
		"env", cfg.Env,
		"version", cfg.App.Version,
		"pickup_warehouse_id", cfg.Fulfillment.PickupWarehouseID,
		"grace_period", cfg.Reassignment.GracePeriod.String(),
	)

	if err = app.Run(ctx, cfg, log); err != nil {
		log.Errorw("application failed", "error", err)
		cancel()
		_ = log.Sync()
		os.Exit(1) //nolint:gocritic
	}

	log.Infow("application exited normally")
}
