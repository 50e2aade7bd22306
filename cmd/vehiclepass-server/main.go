package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vehiclepass/internal/auth"
	"vehiclepass/internal/config"
	"vehiclepass/internal/db"
	"vehiclepass/internal/httpapi"
	"vehiclepass/internal/vehiclepass/artifact"
	"vehiclepass/internal/vehiclepass/service"
	"vehiclepass/internal/vehiclepass/store"
	"vehiclepass/internal/vehiclepass/store/sqlite"
	"vehiclepass/internal/vehiclepass/store/xlsx"
)

func main() {
	// Optional .env for dev; env vars always win.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "vehiclepass-server ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The users table always lives in sqlite, so the database opens no
	// matter which record backend is selected.
	sqlDB, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()

	writer := db.NewWorker(sqlDB)
	defer writer.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, sqlDB); err != nil {
			logger.Fatalf("seed dev users: %v", err)
		}
	}

	var recordStore store.RecordStore
	switch cfg.Storage {
	case "xlsx":
		recordStore = xlsx.NewRecordStore(cfg.WorkbookPath)
	default:
		recordStore = sqlite.NewRecordStore(sqlDB, writer)
	}
	logger.Printf("record storage: %s", cfg.Storage)

	artifacts, err := artifact.NewFilesystemStore(cfg.ArtifactDir)
	if err != nil {
		logger.Fatalf("artifact store: %v", err)
	}

	registry := service.NewRegistry(recordStore, artifacts, logger)

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:        logger,
		Addr:          cfg.HTTPAddr,
		Registry:      registry,
		Validator:     service.NewValidator(recordStore),
		Importer:      service.NewImporter(registry, logger),
		Authenticator: auth.NewAuthenticator(sqlite.NewUserStore(sqlDB)),
		Artifacts:     artifacts,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
