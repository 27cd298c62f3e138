package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"dedupgate/api"
	"dedupgate/deduplication"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	cfg := deduplication.ConfigFromEnv()
	dedup, err := deduplication.NewDeduplicator(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize deduplicator: %v", err)
	}
	defer dedup.Close()

	r := api.NewRouter(dedup)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/registration/check")
	log.Println("  POST /api/registration/register")
	log.Println("  POST /api/corpus/add")
	log.Println("  GET  /api/corpus/count")
	log.Println("  DELETE /api/corpus/clear")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
