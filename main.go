package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"azizpoultry/a/internal/api"
	"azizpoultry/a/internal/config"
	"azizpoultry/a/internal/database"
	"azizpoultry/a/internal/localstore"
	"azizpoultry/a/internal/schema"
	"azizpoultry/a/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.Must(logger.New())
	defer log.Sync()

	cfg := config.Load()
	db := database.Connect(cfg.DatabasePath, logger.Named(log, "database"))
	defer db.Close()

	if err := schema.Migrate(db, logger.Named(log, "schema")); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	store, err := localstore.New(cfg.DataDir)
	if err != nil {
		log.Fatal("unable to open localstore", zap.Error(err))
	}

	handler := api.New(db, store, logger.Named(log, "api"), cfg.Secret)

	log.Info("Aziz Poultry server starting", zap.String("port", cfg.HTTPPort))
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
