package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/xelth-com/zapstock/internal/app"
	"github.com/xelth-com/zapstock/internal/config"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/store"
)

func main() {
	force := flag.Bool("y", false, "overwrite existing records without asking")
	flag.Parse()

	fmt.Println("🌱 ZapStock Demo Data Seeder")

	if err := run(*force); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the store, and embedded PostgreSQL
// with it, is always shut down.
func run(force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init("zapstock-seed", true)
	logger.SetLevel("warn")

	blobs, closeDB, err := app.OpenBlobs(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	defer closeDB()
	defer blobs.Close()

	ctx := context.Background()
	s := store.New(blobs)
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if !force {
		fmt.Printf("⚠️  Store has %d customers, %d lots and %d orders. Replace with demo data? (y/N): ",
			len(s.Customers()), len(s.Products()), len(s.Orders()))
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Store not modified.")
			return nil
		}
	}

	if err := s.Reset(ctx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Printf("✅ Seeded %d customers, %d lots, %d orders\n", len(s.Customers()), len(s.Products()), len(s.Orders()))
	return nil
}
