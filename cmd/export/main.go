package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/LeeyaD/phonebook-server/config"
	"github.com/LeeyaD/phonebook-server/internal/application"
	"github.com/LeeyaD/phonebook-server/internal/infrastructure"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-export", cfg.Env, cfg.LogFile)

	if cfg.GCSBucket == "" {
		log.Fatal("GCS_BUCKET not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, closeStore, err := infrastructure.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		log.Fatalf("failed to init GCS client: %v", err)
	}
	defer func() { _ = gcs.Close() }()

	svc := application.NewExportService(
		application.NewContactService(store, logger),
		&helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket},
		logger,
	)
	uri, err := svc.Export(ctx)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	fmt.Println(uri)
}
