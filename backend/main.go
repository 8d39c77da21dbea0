package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"petshop/m/internal/api"
	"petshop/m/internal/config"
	"petshop/m/internal/database"
	"petshop/m/internal/logging"
	"petshop/m/internal/metrics"
	"petshop/m/internal/migrations"
	"petshop/m/internal/seed"
	"petshop/m/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Development())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}
	if cfg.SeedProductsCSV != "" {
		if _, err := seed.LoadProducts(db, cfg.SeedProductsCSV); err != nil {
			logger.Warn("product seed skipped", zap.Error(err))
		}
	}

	handler := api.New(store.New(db), cfg.Secret, cfg.CORSOrigins, metrics.New(), logger)

	logger.Info("pet shop server starting",
		zap.String("port", cfg.HTTPPort),
		zap.String("driver", cfg.DatabaseDriver),
	)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
