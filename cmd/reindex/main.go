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
	"github.com/LeeyaD/phonebook-server/internal/infrastructure/search"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

// Rebuilds the Elasticsearch contact index from the store.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-reindex", cfg.Env, cfg.LogFile)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, closeStore, err := infrastructure.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}
	idx := search.NewContactIndex(es, cfg.ESContactsIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Fatalf("failed to ensure index %s: %v", cfg.ESContactsIndex, err)
	}

	contacts := application.NewContactService(store, logger)
	contacts.Index = idx
	n, err := contacts.Reindex(ctx)
	if err != nil {
		log.Fatalf("reindex failed: %v", err)
	}
	fmt.Printf("indexed %d contacts into %s\n", n, cfg.ESContactsIndex)
}
