package main

import (
	"context"
	"fmt"
	"os"

	"github.com/xelth-com/zapstock/internal/app"
	"github.com/xelth-com/zapstock/internal/config"
	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/inventory"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/orders"
	"github.com/xelth-com/zapstock/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("❌ %v\n", err)
		fmt.Println("\n💡 Check STORE_BACKEND and the connection settings in .env")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init("zapstock-report", true)
	logger.SetLevel("warn")

	blobs, closeDB, err := app.OpenBlobs(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	defer closeDB()
	defer blobs.Close()

	s := store.New(blobs)
	if err := s.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	wf := orders.NewWorkflow(s, events.Nop{})
	ledger := inventory.NewLedger(s, events.Nop{})
	dash := wf.Dashboard()

	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║              📊 ZapStock Data Report                      ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Active lots:      %d\n", dash.ActiveProducts)
	fmt.Printf("  Units in stock:   %d\n", dash.TotalStock)
	fmt.Printf("  Pending orders:   %d\n", dash.PendingOrders)
	fmt.Printf("  Receivable:       R$ %.2f\n", dash.Receivable)
	fmt.Printf("  Customers:        %d\n", dash.TotalCustomers)
	fmt.Println()

	if len(dash.LowStock) > 0 {
		fmt.Println("⚠️  LOW STOCK")
		for _, e := range dash.LowStock {
			fmt.Printf("  %-40s %s\n", e.Name, e.Label)
		}
		fmt.Println()
	}

	fmt.Println("📦 RECENT ORDERS")
	fmt.Println("──────────────────────────────────────────────────────────")
	for _, v := range dash.RecentOrders {
		fmt.Printf("  %s  %-20s %3d x %-30s %s\n", v.Date.Format("02/01 15:04"), v.CustomerName, v.Quantity, v.ProductName, v.Status)
	}
	fmt.Println()

	fmt.Println("📣 STOCK BROADCAST")
	fmt.Println("──────────────────────────────────────────────────────────")
	fmt.Println(ledger.BroadcastMessage())
	return nil
}
