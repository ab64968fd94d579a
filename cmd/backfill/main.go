// backfill replays a historical CSV log file into the remote realtime store
// in fixed-size batches. Usage: backfill <path/to/logfile.csv>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"airstation/internal/backfill"
	"airstation/internal/config"
	"airstation/internal/firebase"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: backfill <path/to/logfile.csv>")
		os.Exit(1)
	}
	path := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if cfg.FirebaseURL == "" {
		log.Fatal("FIREBASE_URL must be set")
	}

	rows, skipped, err := backfill.LoadRows(path)
	if err != nil {
		log.Fatalf("Error reading %s: %v", path, err)
	}
	if skipped > 0 {
		fmt.Printf("⚠️  Skipped %d malformed rows.\n", skipped)
	}
	if len(rows) == 0 {
		fmt.Println("No rows to upload.")
		return
	}

	client := firebase.New(cfg.FirebaseURL, cfg.SensorID)
	batches := backfill.Batches(rows, cfg.BatchSize)
	fmt.Printf("Uploading %d rows in %d batches to %s...\n", len(rows), len(batches), client.URL())

	ctx := context.Background()
	failed := 0
	for i, batch := range batches {
		first := backfill.Timestamp(batch[0])
		last := backfill.Timestamp(batch[len(batch)-1])
		fmt.Printf("📦 Sending batch %d/%d (%d records, %s → %s)...\n", i+1, len(batches), len(batch), first, last)
		if err := client.PushBatch(ctx, batch); err != nil {
			fmt.Printf("❌ Batch %d failed: %v\n", i+1, err)
			failed++
			continue
		}
		fmt.Printf("✅ Batch of %d records sent.\n", len(batch))
	}

	if failed > 0 {
		fmt.Printf("Done with errors: %d/%d batches failed.\n", failed, len(batches))
		os.Exit(1)
	}
	fmt.Println("Processing complete.")
}
